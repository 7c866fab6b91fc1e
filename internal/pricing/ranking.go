package pricing

import (
	"sort"
	"strings"
)

// Rank sorts results in place: listings whose title closely matches the
// search query come first, then ascending effective price. The sort is
// stable, so residual ties keep scrape order.
func Rank(results []PricingResult, query string) {
	queryTokens := significantTokens(query)
	sort.SliceStable(results, func(i, j int) bool {
		mi := titleMatches(results[i].ProductTitle, queryTokens)
		mj := titleMatches(results[j].ProductTitle, queryTokens)
		if mi != mj {
			return mi
		}
		return results[i].EffectivePrice < results[j].EffectivePrice
	})
}

// titleMatches reports whether a normalized title contains every
// significant token of the normalized query
func titleMatches(title string, queryTokens []string) bool {
	if len(queryTokens) == 0 {
		return false
	}
	titleWords := make(map[string]bool)
	for _, w := range strings.Fields(normalizeText(title)) {
		titleWords[w] = true
	}
	for _, t := range queryTokens {
		if !titleWords[t] {
			return false
		}
	}
	return true
}

// significantTokens normalizes the query and keeps tokens that carry
// meaning: anything numeric, or at least two characters long
func significantTokens(query string) []string {
	var tokens []string
	for _, w := range strings.Fields(normalizeText(query)) {
		if len(w) >= 2 || isDigits(w) {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// normalizeText lowercases and strips punctuation
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case 'a' <= r && r <= 'z' || '0' <= r && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
