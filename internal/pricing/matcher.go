package pricing

import (
	"strings"
)

// DefaultAliases maps colloquial card names to their canonical
// identities. The table is static configuration, not inferred; both
// directions resolve to the same canonical form.
func DefaultAliases() map[string]string {
	return map[string]string{
		"flipkart axis bank":              "axis bank flipkart",
		"axis bank flipkart":              "axis bank flipkart",
		"amazon pay icici":                "icici bank amazon pay",
		"icici bank amazon pay":           "icici bank amazon pay",
		"icici amazon pay":                "icici bank amazon pay",
		"amex":                            "american express",
		"american express":                "american express",
		"hdfc":                            "hdfc bank",
		"hdfc bank":                       "hdfc bank",
		"icici":                           "icici bank",
		"icici bank":                      "icici bank",
		"sbi card":                        "sbi",
		"sbi":                             "sbi",
		"bpcl sbi":                        "sbi bpcl octane",
		"indianoil hdfc":                  "hdfc bank indianoil",
	}
}

// Matcher binds user card strings to offer card tokens and profile rows
type Matcher struct {
	aliases map[string]string
}

// NewMatcher creates a matcher over the given alias table; nil falls
// back to the default table
func NewMatcher(aliases map[string]string) *Matcher {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Matcher{aliases: aliases}
}

// Match resolves an offer's card token against the user's cards in
// order, first match wins: case-insensitive exact, then alias table,
// then word-boundary bank-name containment. Returns the matched user
// card verbatim, or false when no user card can use the offer.
func (m *Matcher) Match(userCards []string, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	normToken := normalizeCardName(token)

	for _, card := range userCards {
		if normalizeCardName(card) == normToken {
			return card, true
		}
	}
	for _, card := range userCards {
		if m.canonical(card) == m.canonical(token) {
			return card, true
		}
	}
	for _, card := range userCards {
		// User card carries the issuing bank named by the token, e.g.
		// card "HDFC Bank Millennia" vs token "HDFC Bank"
		if containsWord(normalizeCardName(card), normToken) {
			return card, true
		}
	}
	return "", false
}

// ProfileFor finds the reference table row backing a user card, or nil
func (m *Matcher) ProfileFor(card string, table ProfileTable) *CardProfile {
	norm := normalizeCardName(card)
	for i := range table {
		if normalizeCardName(table[i].FullName()) == norm {
			return &table[i]
		}
	}
	canon := m.canonical(card)
	for i := range table {
		if m.canonical(table[i].FullName()) == canon {
			return &table[i]
		}
	}
	for i := range table {
		// "HDFC Millennia" still finds "HDFC Bank Millennia"
		full := normalizeCardName(table[i].FullName())
		if wordSubset(norm, full) || wordSubset(full, norm) {
			return &table[i]
		}
	}
	return nil
}

// wordSubset reports whether every word of a appears in b
func wordSubset(a, b string) bool {
	aWords := strings.Fields(a)
	if len(aWords) == 0 {
		return false
	}
	bWords := make(map[string]bool)
	for _, w := range strings.Fields(b) {
		bWords[w] = true
	}
	for _, w := range aWords {
		if !bWords[w] {
			return false
		}
	}
	return true
}

// canonical resolves a name through the alias table after normalization
func (m *Matcher) canonical(name string) string {
	norm := normalizeCardName(name)
	if canon, ok := m.aliases[norm]; ok {
		return canon
	}
	return norm
}

// Filler words that vary between how offers, profiles and users spell
// the same card
var cardNoiseWords = map[string]bool{
	"credit": true,
	"card":   true,
	"cards":  true,
}

// normalizeCardName lowercases, strips punctuation and drops the
// "credit card" filler so "HDFC Bank Credit Card" equals "HDFC Bank"
func normalizeCardName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case 'a' <= r && r <= 'z' || '0' <= r && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	var kept []string
	for _, w := range strings.Fields(b.String()) {
		if !cardNoiseWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
