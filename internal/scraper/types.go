package scraper

import "kartikrathi/smartprice/internal/pricing"

// Scraper interface defines the contract for all platform scrapers
type Scraper interface {
	// FetchListings retrieves product listings for a search query
	FetchListings(query string) ([]pricing.Listing, error)

	// FetchOfferText retrieves the bank offer lines from a product detail page
	FetchOfferText(productURL string) ([]string, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// GetPlatform returns the platform the scraper covers
	GetPlatform() pricing.Platform
}

// URLNormalizerFunc canonicalizes a product URL so the same product
// reached through different search placements dedups to one listing
type URLNormalizerFunc func(string) string

// Selectors contains CSS selectors for various elements in the page
type Selectors struct {
	ProductList string
	Title       string
	Link        string
	Price       string
	Rating      string
	// OfferList matches offer snippets shown on the search result card
	OfferList string
	// OfferDetail matches the bank offer block on the product detail page
	OfferDetail string
}

// ScraperConfig contains configuration for a scraper
type ScraperConfig struct {
	// SearchURL is a template with one %s placeholder for the escaped query
	SearchURL     string
	CacheKey      string
	BlockTime     int
	BaseURL       string
	Platform      pricing.Platform
	MaxProducts   int
	Selectors     Selectors
	URLNormalizer URLNormalizerFunc
}
