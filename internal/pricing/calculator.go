package pricing

import (
	"fmt"
	"math"
	"strings"
)

// cardOutcome is the result of evaluating one user card against one listing
type cardOutcome struct {
	card         string
	profile      *CardProfile
	discount     float64
	points       float64
	pointsValue  float64
	breakdown    []string
	orderInSet   int
	annualFee    float64
	usedProfile  bool
}

// Calculate applies the matched offers and the card benefit reference
// table to a single listing, producing total discount, effective price
// and a breakdown. The listing's price must already be parsed.
//
// Stacking rules, in order:
//  1. already-applied offers contribute nothing; they only explain the
//     displayed price (and on Flipkart constrain what else may stack)
//  2. exchange offers never reduce the price (they require a trade-in)
//  3. among the retailer's offers usable by a given card, the single
//     best one applies; Flipkart's "one more offer beyond the special
//     price" rule reduces to the same single-best pick
//  4. the card issuer's own universal cashback stacks on top, since it
//     comes from the issuer rather than the retailer
//  5. reward points add to the discount only when the profile marks
//     them redeemable as cashback, otherwise they are reported as a
//     separate non-price benefit
func Calculate(listing Listing, price ParsedPrice, offers []OfferCandidate, userCards []string, matcher *Matcher, profiles ProfileTable) PricingResult {
	original := price.Price

	usable, specialApplied := partitionOffers(offers)

	best := bestOutcome(listing, original, usable, userCards, matcher, profiles)

	totalDiscount := math.Max(0, math.Min(best.discount, original))
	effective := original - totalDiscount

	savings := 0.0
	if original > 0 {
		savings = totalDiscount / original * 100
	}

	desc := strings.Join(best.breakdown, "; ")
	if desc == "" {
		desc = "No applicable card offer"
	}
	if specialApplied {
		desc += " (special price already applied)"
	}

	recommended := best.card
	if recommended == "" {
		recommended = "None"
	}

	return PricingResult{
		ProductTitle:           listing.Title,
		ProductURL:             listing.URL,
		Platform:               listing.Platform,
		OriginalPrice:          original,
		TotalDiscount:          totalDiscount,
		EffectivePrice:         effective,
		SavingsPercentage:      savings,
		RecommendedCard:        recommended,
		CardBenefitDescription: desc,
		RewardPointsEarned:     best.points,
		RewardPointsValue:      best.pointsValue,
	}
}

// partitionOffers drops the offers that never reduce the price and
// reports whether an already-applied offer was present
func partitionOffers(offers []OfferCandidate) (usable []OfferCandidate, specialApplied bool) {
	for _, o := range offers {
		switch o.Scope {
		case ScopeAlreadyApplied:
			specialApplied = true
		case ScopeExchange:
			// requires a trade-in, not a price reduction
		default:
			if o.Value <= 0 {
				// malformed candidate, skipped not fatal
				continue
			}
			usable = append(usable, o)
		}
	}
	return usable, specialApplied
}

// bestOutcome evaluates every user card and picks the winner. Ties
// break by highest discount, then lowest annual fee, then the order
// the user listed their cards.
func bestOutcome(listing Listing, original float64, offers []OfferCandidate, userCards []string, matcher *Matcher, profiles ProfileTable) cardOutcome {
	candidates := userCards
	if len(candidates) == 0 {
		// No cards held: platform-wide offers still apply
		candidates = []string{""}
	}

	var best cardOutcome
	haveBest := false
	for i, card := range candidates {
		outcome := evaluateCard(listing, original, offers, card, matcher, profiles)
		outcome.orderInSet = i
		if !haveBest || betterOutcome(outcome, best) {
			best = outcome
			haveBest = true
		}
	}
	return best
}

func betterOutcome(a, b cardOutcome) bool {
	if a.discount != b.discount {
		return a.discount > b.discount
	}
	if a.annualFee != b.annualFee {
		return a.annualFee < b.annualFee
	}
	return a.orderInSet < b.orderInSet
}

// evaluateCard computes the discount one card can achieve on a listing
func evaluateCard(listing Listing, original float64, offers []OfferCandidate, card string, matcher *Matcher, profiles ProfileTable) cardOutcome {
	outcome := cardOutcome{card: card}

	var profile *CardProfile
	if card != "" {
		profile = matcher.ProfileFor(card, profiles)
	}
	if profile != nil {
		outcome.profile = profile
		outcome.usedProfile = true
		outcome.annualFee = profile.AnnualFee
	}

	// Single best retailer offer usable by this card
	var bestOffer *OfferCandidate
	bestAmount := 0.0
	for i := range offers {
		o := &offers[i]
		if !offerUsable(o, card, matcher) {
			continue
		}
		amount := offerAmount(o, original)
		if amount > bestAmount {
			bestAmount = amount
			bestOffer = o
		}
	}
	if bestOffer != nil {
		outcome.discount += bestAmount
		outcome.breakdown = append(outcome.breakdown,
			fmt.Sprintf("%s: ₹%.2f off", bestOffer.RawText, bestAmount))
	}

	if profile == nil {
		return outcome
	}

	spend := math.Max(0, original-outcome.discount)

	// Issuer-side universal cashback stacks with the retailer's offer
	if profile.UniversalCashbackRate > 0 {
		cashback := profile.UniversalCashbackRate / 100 * spend
		outcome.discount += cashback
		outcome.breakdown = append(outcome.breakdown,
			fmt.Sprintf("%.2f%% %s cashback: ₹%.2f", profile.UniversalCashbackRate, profile.FullName(), cashback))
	}

	// Reward points reduce the price only when redeemable as cashback
	if profile.RewardPointsPerUnit > 0 && profile.UnitSpend > 0 {
		points := math.Floor(spend/profile.UnitSpend) * profile.RewardPointsPerUnit
		value := points * profile.PointValue
		outcome.points = points
		outcome.pointsValue = value
		if profile.RewardsAsCashback && value > 0 {
			outcome.discount += value
			outcome.breakdown = append(outcome.breakdown,
				fmt.Sprintf("%.0f reward points worth ₹%.2f (redeemable as cashback)", points, value))
		} else if points > 0 {
			outcome.breakdown = append(outcome.breakdown,
				fmt.Sprintf("earns %.0f reward points worth ₹%.2f (not price-reducing)", points, value))
		}
	}

	return outcome
}

// offerUsable reports whether a given user card can claim an offer
func offerUsable(o *OfferCandidate, card string, matcher *Matcher) bool {
	if o.Scope == ScopePlatformWide {
		return true
	}
	if card == "" {
		return false
	}
	matched, ok := matcher.Match([]string{card}, o.CardToken)
	return ok && matched == card
}

// offerAmount converts an offer into a currency amount, clipped to its cap
func offerAmount(o *OfferCandidate, original float64) float64 {
	var amount float64
	switch o.Kind {
	case KindPercent, KindCashbackPercent:
		amount = o.Value / 100 * original
	case KindFixed, KindCashbackFixed:
		amount = o.Value
	}
	if o.HasCap && amount > o.Cap {
		amount = o.Cap
	}
	return amount
}
