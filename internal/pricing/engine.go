// Package pricing implements the deterministic discount-normalization
// and effective-price ranking engine. Given already-scraped listings, a
// user's credit cards and the card benefit reference table, it extracts
// structured offers from free-text offer descriptions, matches them to
// the user's cards, computes the best effective price per listing and
// ranks the batch. The engine is a pure function over its inputs: no
// I/O, no shared state, identical output for identical input.
package pricing

import (
	"kartikrathi/smartprice/logger"
)

// Engine wires the matcher and reference table into one reusable,
// stateless computation
type Engine struct {
	matcher  *Matcher
	profiles ProfileTable
	log      *logger.Logger
}

// NewEngine creates an engine over the given reference table and alias
// table. A nil alias table uses the built-in defaults; an empty profile
// table degrades to "offers only" mode.
func NewEngine(profiles ProfileTable, aliases map[string]string) *Engine {
	return &Engine{
		matcher:  NewMatcher(aliases),
		profiles: profiles,
		log:      logger.ForEngine(),
	}
}

// Matcher exposes the engine's card matcher
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}

// Profiles exposes the loaded reference table
func (e *Engine) Profiles() ProfileTable {
	return e.profiles
}

// ComputeRankings prices and ranks a batch of listings for one query.
// Listings whose price cannot be parsed are excluded and counted in
// Report.Skipped; every other per-listing failure degrades to a
// zero-discount result. One bad listing never aborts the batch.
func (e *Engine) ComputeRankings(query string, listings []Listing, userCards []string) Report {
	report := Report{Results: make([]PricingResult, 0, len(listings))}

	for _, listing := range listings {
		price, err := ParsePrice(listing.PriceText)
		if err != nil {
			e.log.Warn().
				Str("title", listing.Title).
				Str("price_text", listing.PriceText).
				Err(err).
				Msg("Skipping listing with unparseable price")
			report.Skipped++
			continue
		}

		offers, droppedLines := ExtractOffers(listing.OfferText)
		if droppedLines > 0 {
			e.log.Debug().
				Str("title", listing.Title).
				Int("dropped_lines", droppedLines).
				Msg("Dropped unparseable offer lines")
		}

		result := Calculate(listing, price, offers, userCards, e.matcher, e.profiles)
		result.ConfidenceScore = confidence(price, droppedLines, result, e.matcher, e.profiles)
		report.Results = append(report.Results, result)
	}

	Rank(report.Results, query)
	return report
}

// confidence is a deterministic heuristic indicator of extraction and
// match certainty, not a statistical probability
func confidence(price ParsedPrice, droppedLines int, result PricingResult, matcher *Matcher, profiles ProfileTable) float64 {
	score := 1.0
	score -= 0.15 * float64(droppedLines)
	if price.HasMRP() {
		// Price came from a concatenated sale+MRP run
		score -= 0.1
	}
	if result.RecommendedCard != "None" && matcher.ProfileFor(result.RecommendedCard, profiles) == nil {
		score -= 0.2
	}
	if score < 0.1 {
		score = 0.1
	}
	return score
}
