package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartikrathi/smartprice/config"
	"kartikrathi/smartprice/internal/cards"
	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/internal/scraper"
	"kartikrathi/smartprice/services/analyzer"
)

// stubScraper returns fixed listings for any query
type stubScraper struct {
	platform pricing.Platform
	listings []pricing.Listing
}

var _ scraper.Scraper = (*stubScraper)(nil)

func (s *stubScraper) FetchListings(query string) ([]pricing.Listing, error) {
	return s.listings, nil
}

func (s *stubScraper) FetchOfferText(productURL string) ([]string, error) {
	return nil, nil
}

func (s *stubScraper) GetName() string               { return string(s.platform) + "Scraper" }
func (s *stubScraper) GetPlatform() pricing.Platform { return s.platform }

func testHandlers() *Handlers {
	stub := &stubScraper{
		platform: pricing.PlatformAmazon,
		listings: []pricing.Listing{{
			Title:     "Apple iPhone 15 (Black, 128 GB)",
			URL:       "https://www.amazon.in/dp/B0TEST1",
			Platform:  pricing.PlatformAmazon,
			PriceText: "₹61,999",
			OfferText: []string{"10% off on HDFC Bank Credit Cards, up to ₹3,000"},
		}},
	}
	table := cards.Default()
	engine := pricing.NewEngine(table, pricing.DefaultAliases())
	a := analyzer.NewAnalyzer([]scraper.Scraper{stub}, engine, nil, 0)
	return NewHandlers(a, table, 30*time.Second)
}

func testRouter() http.Handler {
	cfg := &config.Config{
		AllowedOrigins: []string{"http://localhost:5173"},
		RateLimitRPS:   100,
	}
	return NewRouter(testHandlers(), cfg)
}

func TestAnalyzePrices(t *testing.T) {
	body := `{"product_query": "iPhone 15", "user_credit_cards": ["HDFC Bank Millennia"]}`
	req := httptest.NewRequest("POST", "/analyze-prices", strings.NewReader(body))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report analyzer.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "iPhone 15", report.Query)
	require.Equal(t, 1, report.TotalProducts)

	product := report.Products[0]
	assert.Equal(t, 61999.0, product.OriginalPrice)
	// 10% clipped to the ₹3,000 cap, plus Millennia points as cashback
	assert.Greater(t, product.TotalDiscount, 3000.0)
	assert.Less(t, product.EffectivePrice, product.OriginalPrice)
	assert.NotEmpty(t, product.RecommendedCard)
}

func TestAnalyzePrices_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/analyze-prices", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzePrices_Validation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"query too short", `{"product_query": "a", "user_credit_cards": ["HDFC Bank Millennia"]}`},
		{"query too long", `{"product_query": "` + strings.Repeat("x", 201) + `", "user_credit_cards": ["HDFC Bank Millennia"]}`},
		{"no cards", `{"product_query": "iPhone 15", "user_credit_cards": []}`},
		{"blank card", `{"product_query": "iPhone 15", "user_credit_cards": [" "]}`},
		{"too many products", `{"product_query": "iPhone 15", "user_credit_cards": ["HDFC Bank Millennia"], "max_products_per_platform": 50}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/analyze-prices", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			testRouter().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSupportedCards(t *testing.T) {
	req := httptest.NewRequest("GET", "/supported-cards", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SupportedCards []string `json:"supported_cards"`
		Total          int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, resp.Total, len(resp.SupportedCards))
	assert.Contains(t, resp.SupportedCards, "HDFC Bank Millennia")
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.NotEmpty(t, resp["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest("GET", "/analyze-prices", nil)
	rec := httptest.NewRecorder()

	testRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
