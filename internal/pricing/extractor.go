package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"kartikrathi/smartprice/helpers"
)

// Offer line patterns. Scraped offer text is free-form marketing copy;
// these are ordered checks, not a grammar.
var (
	percentRe = regexp.MustCompile(`(\d{1,3}(?:\.\d{1,2})?)\s*%`)
	amountRe  = regexp.MustCompile(`(?i)(?:₹|rs\.?\s?|inr\s?)\s*([\d,]+(?:\.\d+)?)`)
	capRe     = regexp.MustCompile(`(?i)(?:up\s?to|upto|max(?:imum)?|capped\s+at)\s*(?:of\s*)?(?:₹|rs\.?\s?|inr\s?)\s*([\d,]+(?:\.\d+)?)`)
)

// Lines describing things that never reduce the checkout price
var noiseMarkers = []string{
	"no cost emi",
	"emi interest",
	"emi starting",
	"emi available",
	"gst invoice",
	"free delivery",
	"lounge access",
	"warranty",
	"buyback",
}

// Offers that require a non-card payment method are out of scope when
// the only payable method under evaluation is a credit card
var nonCardMarkers = []string{
	"upi",
	"wallet",
	"netbanking",
	"net banking",
	"gift card",
	"debit card",
}

var alreadyAppliedMarkers = []string{
	"special price",
	"already applied",
	"price inclusive",
	"inclusive of",
}

var discountWords = []string{"off", "discount", "cashback", "instant", "save"}

// Co-branded card phrases, checked before plain bank names so that
// "Flipkart Axis Bank" does not collapse into "Axis Bank"
var cobrandTokens = []string{
	"Amazon Pay ICICI",
	"Flipkart Axis Bank",
	"BPCL SBI",
	"IndianOil HDFC",
}

var bankTokens = []string{
	"HDFC Bank", "HDFC",
	"ICICI Bank", "ICICI",
	"Axis Bank", "Axis",
	"SBI Card", "SBI",
	"Kotak Mahindra", "Kotak",
	"IDFC First", "IDFC",
	"American Express", "Amex",
	"Yes Bank",
	"IndusInd",
	"RBL",
	"Federal Bank",
	"Bank of Baroda",
	"AU Small Finance",
	"Citi",
	"Emirates NBD",
	"Dubai Islamic Bank",
	"FAB", "ADCB",
}

// ExtractOffers turns one listing's raw offer text into structured offer
// candidates. Unparseable lines are dropped (the count feeds the
// confidence score), never fatal. Duplicates are removed by
// (card_token, kind, value, cap).
func ExtractOffers(offerText []string) (candidates []OfferCandidate, dropped int) {
	seen := make(map[string]bool)

	add := func(c OfferCandidate) {
		key := c.CardToken + "|" + string(c.Kind) + "|" +
			strconv.FormatFloat(c.Value, 'f', -1, 64) + "|" +
			strconv.FormatFloat(c.Cap, 'f', -1, 64)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, c)
	}

	for _, raw := range offerText {
		for _, line := range splitOfferLines(raw) {
			cands, ok := extractLine(line)
			if !ok {
				dropped++
				continue
			}
			for _, c := range cands {
				add(c)
			}
		}
	}
	return candidates, dropped
}

// splitOfferLines breaks a scraped offer block into candidate sentences
func splitOfferLines(raw string) []string {
	var lines []string
	for _, l := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '|' || r == ';'
	}) {
		l = helpers.CollapseSpaces(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// extractLine classifies a single offer line. The second return is false
// only for lines that look like offers but could not be parsed; pure
// noise lines (EMI, delivery, warranty) return (nil, true) and are
// skipped without penalty.
func extractLine(line string) ([]OfferCandidate, bool) {
	lower := strings.ToLower(line)

	if containsAny(lower, noiseMarkers) {
		return nil, true
	}

	token, scope := classifyCardScope(line)

	if containsAny(lower, alreadyAppliedMarkers) {
		c := OfferCandidate{CardToken: token, Kind: KindFixed, Scope: ScopeAlreadyApplied, RawText: line}
		if m := amountRe.FindStringSubmatch(line); m != nil {
			c.Value, _ = parseRun(m[1])
		}
		return []OfferCandidate{c}, true
	}

	if strings.Contains(lower, "exchange") {
		return []OfferCandidate{{CardToken: token, Kind: KindFixed, Scope: ScopeExchange, RawText: line}}, true
	}

	// Offers paid through UPI, wallets etc. are unusable with a credit
	// card unless the line also names a card
	if containsAny(lower, nonCardMarkers) && token == "" && !strings.Contains(lower, "credit card") {
		return nil, true
	}

	cashback := strings.Contains(lower, "cashback")
	var cands []OfferCandidate

	if m := percentRe.FindStringSubmatch(line); m != nil {
		value, _ := strconv.ParseFloat(m[1], 64)
		kind := KindPercent
		if cashback {
			kind = KindCashbackPercent
		}
		cands = append(cands, OfferCandidate{
			CardToken: token,
			Kind:      kind,
			Value:     value,
			Scope:     scope,
			RawText:   line,
		})
	}

	if m := capRe.FindStringSubmatch(line); m != nil {
		capVal, _ := parseRun(m[1])
		if len(cands) > 0 {
			// Cap attaches to the most recent candidate on the line
			last := &cands[len(cands)-1]
			last.Cap = capVal
			last.HasCap = true
		} else {
			// "Upto ₹4,000 discount" with no percentage is a fixed
			// discount whose ceiling is the stated amount
			kind := KindFixed
			if cashback {
				kind = KindCashbackFixed
			}
			cands = append(cands, OfferCandidate{
				CardToken: token,
				Kind:      kind,
				Value:     capVal,
				Cap:       capVal,
				HasCap:    true,
				Scope:     scope,
				RawText:   line,
			})
		}
	} else if len(cands) == 0 && containsAny(lower, discountWords) {
		if m := amountRe.FindStringSubmatch(line); m != nil {
			value, _ := parseRun(m[1])
			kind := KindFixed
			if cashback {
				kind = KindCashbackFixed
			}
			cands = append(cands, OfferCandidate{
				CardToken: token,
				Kind:      kind,
				Value:     value,
				Scope:     scope,
				RawText:   line,
			})
		}
	}

	if len(cands) == 0 {
		return nil, false
	}
	return cands, true
}

// classifyCardScope finds the card or bank a line refers to. Co-branded
// phrases win over plain bank names; a line naming neither is usable
// platform-wide.
func classifyCardScope(line string) (token string, scope OfferScope) {
	lower := strings.ToLower(line)

	for _, cb := range cobrandTokens {
		if strings.Contains(lower, strings.ToLower(cb)) {
			return cb, ScopeSpecificCard
		}
	}
	for _, b := range bankTokens {
		if containsWord(lower, strings.ToLower(b)) {
			return b, ScopeBankCard
		}
	}
	return "", ScopePlatformWide
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// containsWord reports whether needle appears in s on word boundaries,
// so "SBI" matches "SBI Card" but not "RSBI" inside a longer word
func containsWord(s, needle string) bool {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	})
	needleWords := strings.Fields(needle)
	if len(needleWords) == 0 {
		return false
	}
	for i := 0; i+len(needleWords) <= len(words); i++ {
		match := true
		for j, nw := range needleWords {
			if words[i+j] != nw {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
