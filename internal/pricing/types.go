package pricing

// Platform identifies the e-commerce site a listing was scraped from
type Platform string

const (
	PlatformAmazon   Platform = "Amazon"
	PlatformFlipkart Platform = "Flipkart"
	PlatformBlinkit  Platform = "Blinkit"
	PlatformZepto    Platform = "Zepto"
)

// Listing represents one scraped product occurrence on one platform.
// It is created by the scraping layer and never mutated by the engine.
type Listing struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Platform  Platform `json:"platform"`
	PriceText string   `json:"price_text"`
	Rating    string   `json:"rating,omitempty"`
	OfferText []string `json:"offer_text,omitempty"`
}

// OfferKind classifies how an offer reduces the price
type OfferKind string

const (
	KindPercent         OfferKind = "percent"
	KindFixed           OfferKind = "fixed"
	KindCashbackPercent OfferKind = "cashback_percent"
	KindCashbackFixed   OfferKind = "cashback_fixed"
)

// OfferScope classifies what payment or card condition an offer requires
type OfferScope string

const (
	// ScopePlatformWide applies regardless of which card the buyer holds
	ScopePlatformWide OfferScope = "platform_wide"
	// ScopeBankCard requires any card from a named bank
	ScopeBankCard OfferScope = "bank_card"
	// ScopeSpecificCard requires one named co-branded card
	ScopeSpecificCard OfferScope = "specific_card"
	// ScopeExchange requires trading in an old device; never price-reducing here
	ScopeExchange OfferScope = "exchange"
	// ScopeAlreadyApplied is folded into the displayed price; informational only
	ScopeAlreadyApplied OfferScope = "already_applied"
)

// OfferCandidate is one structured discount extracted from raw offer text
type OfferCandidate struct {
	CardToken string     `json:"card_token,omitempty"`
	Kind      OfferKind  `json:"kind"`
	Value     float64    `json:"value"`
	Cap       float64    `json:"cap,omitempty"`
	HasCap    bool       `json:"-"`
	Scope     OfferScope `json:"scope"`
	RawText   string     `json:"raw_text,omitempty"`
}

// IsCashback reports whether the offer credits money back rather than
// discounting at checkout. Both reduce the effective price.
func (o OfferCandidate) IsCashback() bool {
	return o.Kind == KindCashbackPercent || o.Kind == KindCashbackFixed
}

// CardProfile is one row of the credit card benefit reference table.
// Free-text fields pass through verbatim into output; only the numeric
// rate fields participate in computation.
type CardProfile struct {
	Bank                  string             `json:"bank"`
	CardName              string             `json:"card_name"`
	UniversalCashbackRate float64            `json:"universal_cashback_rate"`
	RewardPointsPerUnit   float64            `json:"reward_points_per_unit_spend"`
	UnitSpend             float64            `json:"unit_spend"`
	PointValue            float64            `json:"point_value"`
	CategoryRates         map[string]float64 `json:"category_rates,omitempty"`
	RewardsAsCashback     bool               `json:"rewards_as_cashback"`
	AnnualFee             float64            `json:"annual_fee"`
	WelcomeOffer          string             `json:"welcome_offer,omitempty"`
	LoungeAccess          string             `json:"lounge_access,omitempty"`
	OtherBenefits         string             `json:"other_benefits,omitempty"`
}

// FullName returns the bank-qualified card name as users know it
func (p CardProfile) FullName() string {
	if p.Bank == "" {
		return p.CardName
	}
	return p.Bank + " " + p.CardName
}

// ProfileTable is the loaded reference table, in file order
type ProfileTable []CardProfile

// PricingResult is the per-listing output of the engine
type PricingResult struct {
	ProductTitle           string   `json:"product_title"`
	ProductURL             string   `json:"product_url"`
	Platform               Platform `json:"platform"`
	OriginalPrice          float64  `json:"original_price"`
	TotalDiscount          float64  `json:"total_discount"`
	EffectivePrice         float64  `json:"effective_price"`
	SavingsPercentage      float64  `json:"savings_percentage"`
	RecommendedCard        string   `json:"recommended_card"`
	CardBenefitDescription string   `json:"card_benefit_description"`
	RewardPointsEarned     float64  `json:"reward_points_earned"`
	RewardPointsValue      float64  `json:"reward_points_value"`
	ConfidenceScore        float64  `json:"confidence_score"`
}

// Report is the batch output of one engine run
type Report struct {
	Results []PricingResult `json:"results"`
	Skipped int             `json:"skipped"`
}
