package scraper

import (
	"strings"

	"kartikrathi/smartprice/config"
	"kartikrathi/smartprice/helpers"
	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/services/cache"
)

// CreateScrapers creates all the platform scrapers based on the configuration
func CreateScrapers(cfg *config.Config, cacheSvc cache.CacheService) []Scraper {
	configurations := []ScraperConfig{
		{
			// Amazon.in search results
			SearchURL:   cfg.AmazonSearchURL,
			CacheKey:    "amazon_rate_limited",
			BlockTime:   cfg.ScrapeBlockSeconds,
			BaseURL:     "https://www.amazon.in",
			Platform:    pricing.PlatformAmazon,
			MaxProducts: cfg.MaxProductsPerPlatform,
			Selectors: Selectors{
				ProductList: `div[data-component-type="s-search-result"]`,
				Title:       "h2 a span, h2 span",
				Link:        "h2 a, a.a-link-normal.s-no-outline",
				Price:       "span.a-price > span.a-offscreen",
				Rating:      "span.a-icon-alt",
				OfferList:   "span.s-coupon-highlight-text, span.a-badge-text",
				OfferDetail: "#itembox-InstantBankDiscount span.a-truncate-full, " +
					"div#promoPriceBlockMessage_feature_div span, " +
					"div.promotions-upsell span.a-truncate-full",
			},
			URLNormalizer: normalizeAmazonURL,
		},
		{
			// Flipkart search results
			SearchURL:   cfg.FlipkartSearchURL,
			CacheKey:    "flipkart_rate_limited",
			BlockTime:   cfg.ScrapeBlockSeconds,
			BaseURL:     "https://www.flipkart.com",
			Platform:    pricing.PlatformFlipkart,
			MaxProducts: cfg.MaxProductsPerPlatform,
			Selectors: Selectors{
				ProductList: "div[data-id]",
				Title:       "div._4rR01T, div.KzDlHZ, a.s1Q9rs, a.wjcEIp",
				Link:        "a._1fQZEK, a.CGtC98, a.s1Q9rs, a.wjcEIp",
				Price:       "div._30jeq3, div.Nx9bqj",
				Rating:      "div._3LWZlK, div.XQDdHH",
				OfferList:   "div._3Ay6Sb span, div.UkUFwK span",
				OfferDetail: "li._16eBzU span, li.kF1Ml8, div.NYb6Oz li",
			},
			URLNormalizer: normalizeFlipkartURL,
		},
	}

	scrapers := make([]Scraper, 0, len(configurations))
	for _, c := range configurations {
		scrapers = append(scrapers, NewSiteScraper(c, cacheSvc))
	}

	return scrapers
}

// normalizeAmazonURL canonicalizes amazon product links to the bare
// /dp/ASIN form so sponsored and organic placements dedup together
func normalizeAmazonURL(link string) string {
	asin, err := helpers.GetSplitPart(link, "/dp/", 1)
	if err != nil {
		return stripQuery(link)
	}

	if end := strings.IndexAny(asin, "/?"); end >= 0 {
		asin = asin[:end]
	}
	if asin == "" {
		return stripQuery(link)
	}

	return "https://www.amazon.in/dp/" + asin
}

// normalizeFlipkartURL drops the tracking query but keeps the pid
// parameter, which identifies the product
func normalizeFlipkartURL(link string) string {
	base, query, found := strings.Cut(link, "?")
	if !found {
		return link
	}

	for _, param := range strings.Split(query, "&") {
		if strings.HasPrefix(param, "pid=") {
			return base + "?" + param
		}
	}

	return base
}

func stripQuery(link string) string {
	base, _, _ := strings.Cut(link, "?")
	return base
}
