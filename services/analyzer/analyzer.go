package analyzer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/internal/scraper"
	"kartikrathi/smartprice/logger"
	"kartikrathi/smartprice/services/publisher"
)

// Report is the full output of one analysis run
type Report struct {
	Query           string                  `json:"query"`
	Timestamp       string                  `json:"timestamp"`
	Products        []pricing.PricingResult `json:"products"`
	TotalProducts   int                     `json:"total_products"`
	SkippedListings int                     `json:"skipped_listings"`
}

// Analyzer handles the scraping and pricing process for one request.
// Scrapers run in parallel; one platform failing never aborts the run.
type Analyzer struct {
	scrapers       []scraper.Scraper
	engine         *pricing.Engine
	pub            publisher.Publisher
	log            *logger.Logger
	maxDetailPages int
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(scrapers []scraper.Scraper, engine *pricing.Engine, pub publisher.Publisher, maxDetailPages int) *Analyzer {
	return &Analyzer{
		scrapers:       scrapers,
		engine:         engine,
		pub:            pub,
		log:            logger.ForAnalyzer(),
		maxDetailPages: maxDetailPages,
	}
}

// Analyze runs the full pipeline for one query: scrape all platforms,
// enrich with detail-page offers, compute rankings, publish the report.
// maxPerPlatform caps listings per platform when positive; zero keeps
// the scraper defaults.
func (a *Analyzer) Analyze(ctx context.Context, query string, userCards []string, maxPerPlatform int) (*Report, error) {
	start := time.Now()

	listings, err := a.collectListings(ctx, query, maxPerPlatform)
	if err != nil {
		return nil, err
	}

	listings = a.enrichWithOffers(ctx, listings)

	engineReport := a.engine.ComputeRankings(query, listings, userCards)

	report := &Report{
		Query:           query,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Products:        engineReport.Results,
		TotalProducts:   len(engineReport.Results),
		SkippedListings: engineReport.Skipped,
	}

	a.publish(report)

	a.log.Info().
		Str("query", query).
		Int("products", report.TotalProducts).
		Int("skipped", report.SkippedListings).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis complete")

	return report, nil
}

// collectListings fans out all scrapers in parallel and merges their
// results, deduplicated by normalized URL in scraper order
func (a *Analyzer) collectListings(ctx context.Context, query string, maxPerPlatform int) ([]pricing.Listing, error) {
	perScraper := make([][]pricing.Listing, len(a.scrapers))
	var wg sync.WaitGroup

	for i, s := range a.scrapers {
		wg.Add(1)
		go func(i int, s scraper.Scraper) {
			defer wg.Done()

			listings, err := s.FetchListings(query)
			if err != nil {
				a.log.Warn().Err(err).Str("scraper", s.GetName()).Msg("Fetch failed; continuing without platform")
				return
			}
			if maxPerPlatform > 0 && len(listings) > maxPerPlatform {
				listings = listings[:maxPerPlatform]
			}
			perScraper[i] = listings
		}(i, s)
	}

	if err := waitOrCancel(ctx, &wg); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var merged []pricing.Listing
	for _, listings := range perScraper {
		for _, l := range listings {
			if seen[l.URL] {
				continue
			}
			seen[l.URL] = true
			merged = append(merged, l)
		}
	}

	return merged, nil
}

// enrichWithOffers fetches detail pages for the first maxDetailPages
// listings and appends their bank offer lines. Detail fetch failures
// are tolerated; the listing keeps its search-card offer text.
func (a *Analyzer) enrichWithOffers(ctx context.Context, listings []pricing.Listing) []pricing.Listing {
	byPlatform := make(map[pricing.Platform]scraper.Scraper, len(a.scrapers))
	for _, s := range a.scrapers {
		byPlatform[s.GetPlatform()] = s
	}

	limit := a.maxDetailPages
	if limit > len(listings) {
		limit = len(listings)
	}

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			a.log.Warn().Err(ctx.Err()).Msg("Offer enrichment cut short")
			break
		}

		s, ok := byPlatform[listings[i].Platform]
		if !ok {
			continue
		}

		wg.Add(1)
		go func(i int, s scraper.Scraper) {
			defer wg.Done()

			offers, err := s.FetchOfferText(listings[i].URL)
			if err != nil {
				a.log.Debug().Err(err).Str("url", listings[i].URL).Msg("Detail page fetch failed")
				return
			}
			listings[i].OfferText = append(listings[i].OfferText, offers...)
		}(i, s)
	}

	// In-flight fetches are bounded by the HTTP client timeout; waiting
	// them out keeps the listings slice safe to read afterwards
	wg.Wait()

	return listings
}

// publish sends the report to the result streams; failures are logged
// and never surfaced to the caller
func (a *Analyzer) publish(report *Report) {
	if a.pub == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to marshal report")
		return
	}

	if err := a.pub.Publish("analysis", data); err != nil {
		a.log.Error().Err(err).Msg("Failed to publish report")
		return
	}

	if err := a.pub.TrimStreams(); err != nil {
		a.log.Error().Err(err).Msg("Failed to trim streams")
	}
}

// waitOrCancel waits for the group unless the context expires first
func waitOrCancel(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
