package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func result(title string, effective float64) PricingResult {
	return PricingResult{ProductTitle: title, EffectivePrice: effective}
}

func TestRank_TitleMatchBeforePrice(t *testing.T) {
	// An accessory can be far cheaper than the product itself; query
	// relevance outranks price
	results := []PricingResult{
		result("iPhone 15 Silicone Case", 1999),
		result("Apple iPhone 15 (Black, 128 GB)", 61655),
		result("Apple iPhone 15 (Blue, 128 GB)", 61490),
	}

	Rank(results, "iPhone 15")

	assert.Equal(t, "Apple iPhone 15 (Blue, 128 GB)", results[0].ProductTitle)
	assert.Equal(t, "Apple iPhone 15 (Black, 128 GB)", results[1].ProductTitle)
	assert.Equal(t, "iPhone 15 Silicone Case", results[2].ProductTitle)
}

func TestRank_CaseMatchesToo(t *testing.T) {
	// "Case" still contains every query token, so it ranks as a match;
	// relevance here is token containment, not semantics
	results := []PricingResult{
		result("iPhone 15 Case", 1999),
		result("Samsung Galaxy S24", 55000),
	}

	Rank(results, "iPhone 15")

	assert.Equal(t, "iPhone 15 Case", results[0].ProductTitle)
}

func TestRank_AscendingEffectivePrice(t *testing.T) {
	results := []PricingResult{
		result("Sony WH-1000XM5 Black", 26990),
		result("Sony WH-1000XM5 Silver", 24990),
		result("Sony WH-1000XM5 Blue", 25990),
	}

	Rank(results, "WH-1000XM5")

	assert.Equal(t, 24990.0, results[0].EffectivePrice)
	assert.Equal(t, 25990.0, results[1].EffectivePrice)
	assert.Equal(t, 26990.0, results[2].EffectivePrice)
}

func TestRank_StableOnTies(t *testing.T) {
	results := []PricingResult{
		result("Widget A", 1000),
		result("Widget B", 1000),
		result("Widget C", 1000),
	}

	Rank(results, "widget")

	assert.Equal(t, "Widget A", results[0].ProductTitle)
	assert.Equal(t, "Widget B", results[1].ProductTitle)
	assert.Equal(t, "Widget C", results[2].ProductTitle)
}

func TestRank_Deterministic(t *testing.T) {
	build := func() []PricingResult {
		return []PricingResult{
			result("iPhone 15 Plus", 70000),
			result("iPhone 15", 61000),
			result("USB-C Cable for iPhone", 499),
			result("iPhone 15 Pro", 120000),
		}
	}

	a := build()
	b := build()
	Rank(a, "iPhone 15")
	Rank(b, "iPhone 15")

	assert.Equal(t, a, b)
}

func TestRank_Empty(t *testing.T) {
	var results []PricingResult
	Rank(results, "anything")
	assert.Empty(t, results)
}
