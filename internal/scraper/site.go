package scraper

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"kartikrathi/smartprice/helpers"
	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/services/cache"
)

// SiteScraper is a selector-driven scraper; one instance per platform,
// configured by a ScraperConfig. All platforms share the same fetch,
// parse and extraction flow, only the selectors differ.
type SiteScraper struct {
	config   ScraperConfig
	cacheSvc cache.CacheService

	// fetchFunc is replaceable in tests
	fetchFunc func(pageURL string) (io.Reader, error)
}

// NewSiteScraper creates a new scraper for one platform
func NewSiteScraper(config ScraperConfig, cacheSvc cache.CacheService) *SiteScraper {
	s := &SiteScraper{
		config:   config,
		cacheSvc: cacheSvc,
	}
	s.fetchFunc = s.fetchWithCache
	return s
}

// GetName returns the scraper's name for logging
func (s *SiteScraper) GetName() string {
	return string(s.config.Platform) + "Scraper"
}

// GetPlatform returns the platform the scraper covers
func (s *SiteScraper) GetPlatform() pricing.Platform {
	return s.config.Platform
}

// FetchListings retrieves product listings for a search query
func (s *SiteScraper) FetchListings(query string) ([]pricing.Listing, error) {
	searchURL := fmt.Sprintf(s.config.SearchURL, url.QueryEscape(query))

	body, err := s.fetchFunc(searchURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %v", err)
	}

	selections := doc.Find(s.config.Selectors.ProductList)
	if s.config.MaxProducts > 0 && selections.Length() > s.config.MaxProducts {
		selections = selections.Slice(0, s.config.MaxProducts)
	}

	return s.processListings(selections), nil
}

// FetchOfferText retrieves the bank offer lines from a product detail page
func (s *SiteScraper) FetchOfferText(productURL string) ([]string, error) {
	body, err := s.fetchFunc(productURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %v", err)
	}

	var offers []string
	doc.Find(s.config.Selectors.OfferDetail).Each(func(i int, sel *goquery.Selection) {
		text := helpers.CollapseSpaces(sel.Text())
		if text != "" {
			offers = append(offers, text)
		}
	})

	return offers, nil
}

// fetchWithCache fetches a URL with rate limiting via the cache service
func (s *SiteScraper) fetchWithCache(pageURL string) (io.Reader, error) {
	blockTime := time.Duration(s.config.BlockTime) * time.Second

	// Check if the platform is rate limited
	if s.cacheSvc != nil && s.config.CacheKey != "" {
		_, err := s.cacheSvc.Get(s.config.CacheKey)
		if err == nil {
			return nil, fmt.Errorf("%s: blocked for %d seconds after rate limiting", s.config.CacheKey, s.config.BlockTime)
		}
	}

	body, err := helpers.FetchWithRandomHeaders(pageURL)
	if err != nil {
		if s.cacheSvc != nil && s.config.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			// Set rate limiting cache
			s.cacheSvc.Set(s.config.CacheKey, []byte(fmt.Sprintf("%d", s.config.BlockTime)), blockTime)
		}
		return nil, err
	}

	return body, nil
}

// processListings processes result cards in parallel using goroutines.
// Slots keep the page order so ranking ties stay deterministic.
func (s *SiteScraper) processListings(selections *goquery.Selection) []pricing.Listing {
	slots := make([]*pricing.Listing, selections.Length())
	var wg sync.WaitGroup

	selections.Each(func(i int, sel *goquery.Selection) {
		wg.Add(1)
		go func(i int, sel *goquery.Selection) {
			defer wg.Done()
			slots[i] = s.processListing(sel)
		}(i, sel)
	})

	wg.Wait()

	var listings []pricing.Listing
	for _, l := range slots {
		if l != nil {
			listings = append(listings, *l)
		}
	}

	return listings
}

// processListing extracts one listing from a result card selection.
// Cards without a title or a price (ads, spacers) are skipped.
func (s *SiteScraper) processListing(sel *goquery.Selection) *pricing.Listing {
	title := s.extractTitle(sel)
	if title == "" {
		return nil
	}

	priceText := helpers.CollapseSpaces(sel.Find(s.config.Selectors.Price).First().Text())
	if priceText == "" {
		return nil
	}

	link := s.extractLink(sel)
	if link == "" {
		return nil
	}

	rating := helpers.CollapseSpaces(sel.Find(s.config.Selectors.Rating).First().Text())

	var offerText []string
	if s.config.Selectors.OfferList != "" {
		sel.Find(s.config.Selectors.OfferList).Each(func(i int, o *goquery.Selection) {
			if text := helpers.CollapseSpaces(o.Text()); text != "" {
				offerText = append(offerText, text)
			}
		})
	}

	return &pricing.Listing{
		Title:     title,
		URL:       link,
		Platform:  s.config.Platform,
		PriceText: priceText,
		Rating:    rating,
		OfferText: offerText,
	}
}

// extractTitle extracts the product title, preferring the title attribute
func (s *SiteScraper) extractTitle(sel *goquery.Selection) string {
	titleSel := sel.Find(s.config.Selectors.Title).First()
	if titleSel.Length() == 0 {
		return ""
	}

	if titleAttr, exists := titleSel.Attr("title"); exists && titleAttr != "" {
		return helpers.CollapseSpaces(titleAttr)
	}

	return helpers.CollapseSpaces(titleSel.Text())
}

// extractLink extracts, resolves and normalizes the product URL
func (s *SiteScraper) extractLink(sel *goquery.Selection) string {
	linkSel := sel.Find(s.config.Selectors.Link).First()
	if linkSel.Length() == 0 {
		return ""
	}

	link, exists := linkSel.Attr("href")
	if !exists {
		return ""
	}

	link = strings.TrimSpace(link)
	if strings.HasPrefix(link, "/") {
		link = s.config.BaseURL + link
	}

	if s.config.URLNormalizer != nil {
		link = s.config.URLNormalizer(link)
	}

	return link
}
