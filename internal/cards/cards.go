// Package cards loads the credit card benefit reference table consumed
// by the pricing engine. The table is read once at startup; a missing
// or malformed file is fatal for card-aware analysis, though the engine
// can still run in "offers only" mode with an empty table.
package cards

import (
	"encoding/json"
	"os"

	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/pkg/errors"
)

// Load reads a card benefit table from a JSON file. An empty path
// returns the built-in default table.
func Load(path string) (pricing.ProfileTable, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewReferenceData("cards", "cannot read card benefit table", err)
	}

	var table pricing.ProfileTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, errors.NewReferenceData("cards", "malformed card benefit table", err)
	}

	for _, p := range table {
		if p.CardName == "" {
			return nil, errors.NewReferenceData("cards", "card benefit row without card_name", nil)
		}
	}

	return table, nil
}

// SupportedCards returns the full names of every card in the table, in
// table order
func SupportedCards(table pricing.ProfileTable) []string {
	names := make([]string, 0, len(table))
	for _, p := range table {
		names = append(names, p.FullName())
	}
	return names
}

// Default returns the built-in reference table covering the cards the
// service advertises. Rates are the issuers' published headline rates.
func Default() pricing.ProfileTable {
	return pricing.ProfileTable{
		{
			Bank:                "HDFC Bank",
			CardName:            "Millennia",
			RewardPointsPerUnit: 4,
			UnitSpend:           150,
			PointValue:          0.25,
			CategoryRates:       map[string]float64{"online_shopping": 5, "dining": 1},
			RewardsAsCashback:   true,
			AnnualFee:           1000,
			WelcomeOffer:        "1000 CashPoints on first spend",
			LoungeAccess:        "8 domestic visits per year on milestone spend",
		},
		{
			Bank:                "HDFC Bank",
			CardName:            "Regalia Gold",
			RewardPointsPerUnit: 4,
			UnitSpend:           150,
			PointValue:          0.5,
			RewardsAsCashback:   false,
			AnnualFee:           2500,
			WelcomeOffer:        "Gift voucher worth ₹2,500",
			LoungeAccess:        "12 domestic and 6 international visits per year",
		},
		{
			Bank:                  "ICICI Bank",
			CardName:              "Amazon Pay",
			UniversalCashbackRate: 1,
			CategoryRates:         map[string]float64{"amazon": 5},
			RewardsAsCashback:     true,
			AnnualFee:             0,
			WelcomeOffer:          "₹2,000 Amazon Pay balance for Prime members",
			LoungeAccess:          "None",
			OtherBenefits:         "5% back on Amazon.in for Prime members, unlimited 1% elsewhere",
		},
		{
			Bank:                  "Axis Bank",
			CardName:              "Flipkart",
			UniversalCashbackRate: 1.5,
			CategoryRates:         map[string]float64{"flipkart": 5, "preferred_partners": 4},
			RewardsAsCashback:     true,
			AnnualFee:             500,
			WelcomeOffer:          "₹600 worth of vouchers on activation",
			LoungeAccess:          "4 domestic visits per year",
			OtherBenefits:         "5% unlimited cashback on Flipkart",
		},
		{
			Bank:                  "Axis Bank",
			CardName:              "ACE",
			UniversalCashbackRate: 1.5,
			CategoryRates:         map[string]float64{"bill_payments": 5, "food_delivery": 4},
			RewardsAsCashback:     true,
			AnnualFee:             500,
			LoungeAccess:          "4 domestic visits per year",
		},
		{
			Bank:                "SBI",
			CardName:            "SimplyCLICK",
			RewardPointsPerUnit: 10,
			UnitSpend:           100,
			PointValue:          0.25,
			CategoryRates:       map[string]float64{"online_shopping": 2.5},
			RewardsAsCashback:   false,
			AnnualFee:           499,
			WelcomeOffer:        "Amazon gift card worth ₹500",
			LoungeAccess:        "None",
		},
		{
			Bank:                "SBI",
			CardName:            "ELITE",
			RewardPointsPerUnit: 2,
			UnitSpend:           100,
			PointValue:          0.25,
			RewardsAsCashback:   false,
			AnnualFee:           4999,
			WelcomeOffer:        "Welcome gift voucher worth ₹5,000",
			LoungeAccess:        "6 international and 8 domestic visits per year",
		},
		{
			Bank:                "American Express",
			CardName:            "Membership Rewards",
			RewardPointsPerUnit: 1,
			UnitSpend:           50,
			PointValue:          0.25,
			RewardsAsCashback:   false,
			AnnualFee:           4500,
			WelcomeOffer:        "4,000 Membership Rewards points",
			LoungeAccess:        "None",
			OtherBenefits:       "Monthly milestone bonus points",
		},
	}
}
