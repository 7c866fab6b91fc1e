package cache

import (
	"time"
)

// CacheService represents a generic cache service. The scraping layer
// uses it for two things: short-lived search page caching so repeated
// queries do not hammer the platforms, and rate-limit block markers
// that suppress fetches for a platform after a 429.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
