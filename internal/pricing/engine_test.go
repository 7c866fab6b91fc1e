package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ComputeRankings(t *testing.T) {
	engine := NewEngine(nil, nil)

	listings := []Listing{
		{
			Title:     "Apple iPhone 15 (Black, 128 GB)",
			URL:       "https://www.amazon.in/dp/B0CHX2F5QT",
			Platform:  PlatformAmazon,
			PriceText: "₹61,999",
			OfferText: []string{"5% cashback up to ₹1,800 on Amazon Pay ICICI Bank Credit Card"},
		},
		{
			Title:     "Apple iPhone 15 (Blue, 128 GB)",
			URL:       "https://www.flipkart.com/apple-iphone-15?pid=MOBGTAGPTB3VS24W",
			Platform:  PlatformFlipkart,
			PriceText: "₹61,490",
		},
	}

	report := engine.ComputeRankings("iPhone 15", listings, []string{"Amazon Pay ICICI Credit Card"})

	require.Len(t, report.Results, 2)
	assert.Equal(t, 0, report.Skipped)

	// Amazon listing: 5% of 61,999 clipped to the 1,800 cap
	var amazon, flipkart *PricingResult
	for i := range report.Results {
		switch report.Results[i].Platform {
		case PlatformAmazon:
			amazon = &report.Results[i]
		case PlatformFlipkart:
			flipkart = &report.Results[i]
		}
	}
	require.NotNil(t, amazon)
	require.NotNil(t, flipkart)

	assert.Equal(t, 1800.0, amazon.TotalDiscount)
	assert.Equal(t, 60199.0, amazon.EffectivePrice)

	assert.Equal(t, 0.0, flipkart.TotalDiscount)
	assert.Equal(t, 61490.0, flipkart.EffectivePrice)

	// Lower effective price ranks first
	assert.Equal(t, amazon.ProductURL, report.Results[0].ProductURL)
}

func TestEngine_SkipsUnparseablePrice(t *testing.T) {
	engine := NewEngine(nil, nil)

	listings := []Listing{
		{Title: "Good", URL: "u1", Platform: PlatformAmazon, PriceText: "₹9,999"},
		{Title: "Bad", URL: "u2", Platform: PlatformAmazon, PriceText: "Currently unavailable"},
	}

	report := engine.ComputeRankings("good", listings, nil)

	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "Good", report.Results[0].ProductTitle)
}

func TestEngine_Confidence(t *testing.T) {
	table := ProfileTable{{Bank: "Axis Bank", CardName: "ACE", UniversalCashbackRate: 1.5, RewardsAsCashback: true}}
	engine := NewEngine(table, nil)

	clean := Listing{Title: "Clean", URL: "u1", Platform: PlatformAmazon, PriceText: "₹10,000",
		OfferText: []string{"10% off on Axis Bank Credit Cards, up to ₹500"}}
	noisy := Listing{Title: "Noisy", URL: "u2", Platform: PlatformAmazon, PriceText: "₹10,000",
		OfferText: []string{"Bank Offer", "Mystery deal inside"}}
	concat := Listing{Title: "Concat", URL: "u3", Platform: PlatformAmazon, PriceText: "₹9,500₹12,000"}

	report := engine.ComputeRankings("zzz", []Listing{clean, noisy, concat}, []string{"Axis Bank ACE"})
	require.Len(t, report.Results, 3)

	byTitle := make(map[string]PricingResult)
	for _, r := range report.Results {
		byTitle[r.ProductTitle] = r
	}

	// Fully parsed listing with a profile-backed card
	assert.InDelta(t, 1.0, byTitle["Clean"].ConfidenceScore, 0.001)
	// Two dropped offer lines cost 0.15 each
	assert.InDelta(t, 0.7, byTitle["Noisy"].ConfidenceScore, 0.001)
	// Price recovered from a concatenated sale+MRP run
	assert.InDelta(t, 0.9, byTitle["Concat"].ConfidenceScore, 0.001)
}

func TestEngine_ConfidenceFloor(t *testing.T) {
	engine := NewEngine(nil, nil)

	noisy := Listing{Title: "Noisy", URL: "u1", Platform: PlatformAmazon, PriceText: "₹1,000",
		OfferText: []string{
			"Mystery deal one off", "Mystery deal two off", "Mystery deal three off",
			"Mystery deal four off", "Mystery deal five off", "Mystery deal six off",
			"Mystery deal seven off",
		}}

	report := engine.ComputeRankings("zzz", []Listing{noisy}, nil)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 0.1, report.Results[0].ConfidenceScore)
}

func TestEngine_DeterministicOutput(t *testing.T) {
	engine := NewEngine(ProfileTable{
		{Bank: "HDFC Bank", CardName: "Millennia", RewardPointsPerUnit: 4, UnitSpend: 150, PointValue: 0.25, RewardsAsCashback: true},
	}, nil)

	listings := []Listing{
		{Title: "iPhone 15", URL: "u1", Platform: PlatformAmazon, PriceText: "₹61,999",
			OfferText: []string{"10% off on HDFC Bank Credit Cards, up to ₹3,000"}},
		{Title: "iPhone 15", URL: "u2", Platform: PlatformFlipkart, PriceText: "₹61,490"},
	}
	cards := []string{"HDFC Bank Millennia"}

	a := engine.ComputeRankings("iPhone 15", listings, cards)
	b := engine.ComputeRankings("iPhone 15", listings, cards)
	assert.Equal(t, a, b)
}

func TestEngine_EmptyInput(t *testing.T) {
	engine := NewEngine(nil, nil)
	report := engine.ComputeRankings("anything", nil, nil)
	assert.Empty(t, report.Results)
	assert.Equal(t, 0, report.Skipped)
}
