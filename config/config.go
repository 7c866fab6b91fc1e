package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server configuration
	ListenAddr     string
	AllowedOrigins []string
	RateLimitRPS   float64

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Reference data
	CardsFile string

	// Scraper configuration
	AmazonSearchURL        string
	FlipkartSearchURL      string
	MaxProductsPerPlatform int
	MaxDetailPages         int
	RequestTimeout         time.Duration
	ScrapeBlockSeconds     int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	maxPerPlatform, _ := strconv.Atoi(getEnv("MAX_PRODUCTS_PER_PLATFORM", "3"))
	maxDetailPages, _ := strconv.Atoi(getEnv("MAX_DETAIL_PAGES", "6"))
	requestTimeout, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "90"))
	blockSeconds, _ := strconv.Atoi(getEnv("SCRAPE_BLOCK_SECONDS", "300"))
	rateLimit, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "1"), 64)

	return Config{
		ListenAddr:             getEnv("LISTEN_ADDR", ":8000"),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPS:           rateLimit,
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                redisDB,
		RedisStream:            getEnv("REDIS_STREAM", "analyses"),
		RedisStreamCount:       streamCount,
		RedisStreamMaxLength:   streamMaxLen,
		MemcacheAddr:           getEnv("MEMCACHE_ADDR", "localhost:11211"),
		CardsFile:              getEnv("CARDS_FILE", ""),
		AmazonSearchURL:        getEnv("AMAZON_SEARCH_URL", "https://www.amazon.in/s?k=%s"),
		FlipkartSearchURL:      getEnv("FLIPKART_SEARCH_URL", "https://www.flipkart.com/search?q=%s"),
		MaxProductsPerPlatform: maxPerPlatform,
		MaxDetailPages:         maxDetailPages,
		RequestTimeout:         time.Duration(requestTimeout) * time.Second,
		ScrapeBlockSeconds:     blockSeconds,
		Environment:            getEnv("SMARTPRICE_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("redis address must not be empty")
	}
	if c.MemcacheAddr == "" {
		return fmt.Errorf("memcache address must not be empty")
	}
	if c.RedisStreamCount < 1 {
		return fmt.Errorf("redis stream count must be at least 1, got %d", c.RedisStreamCount)
	}
	if c.MaxProductsPerPlatform < 1 || c.MaxProductsPerPlatform > 20 {
		return fmt.Errorf("max products per platform must be in [1,20], got %d", c.MaxProductsPerPlatform)
	}
	if !strings.Contains(c.AmazonSearchURL, "%s") {
		return fmt.Errorf("amazon search URL must contain a %%s query placeholder")
	}
	if !strings.Contains(c.FlipkartSearchURL, "%s") {
		return fmt.Errorf("flipkart search URL must contain a %%s query placeholder")
	}
	if c.RequestTimeout < time.Second {
		return fmt.Errorf("request timeout must be at least 1s, got %v", c.RequestTimeout)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
