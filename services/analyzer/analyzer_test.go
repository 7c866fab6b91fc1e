package analyzer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kartikrathi/smartprice/internal/pricing"
	"kartikrathi/smartprice/internal/scraper"
	"kartikrathi/smartprice/services/publisher"
)

// MockScraper implements the scraper.Scraper interface for testing
type MockScraper struct {
	platform   pricing.Platform
	listings   []pricing.Listing
	offerText  map[string][]string
	fetchErr   error
	offersErr  error
	mu         sync.Mutex
	offerCalls []string
}

var _ scraper.Scraper = (*MockScraper)(nil)

func (m *MockScraper) FetchListings(query string) ([]pricing.Listing, error) {
	return m.listings, m.fetchErr
}

func (m *MockScraper) FetchOfferText(productURL string) ([]string, error) {
	m.mu.Lock()
	m.offerCalls = append(m.offerCalls, productURL)
	m.mu.Unlock()
	if m.offersErr != nil {
		return nil, m.offersErr
	}
	return m.offerText[productURL], nil
}

func (m *MockScraper) GetName() string {
	return string(m.platform) + "Scraper"
}

func (m *MockScraper) GetPlatform() pricing.Platform {
	return m.platform
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	mu       sync.Mutex
	messages [][]byte
	trims    int
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages = append(m.messages, messageCopy)
	return nil
}

func (m *MockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trims++
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func amazonListing(url, price string) pricing.Listing {
	return pricing.Listing{
		Title:     "Apple iPhone 15 (Black, 128 GB)",
		URL:       url,
		Platform:  pricing.PlatformAmazon,
		PriceText: price,
	}
}

func flipkartListing(url, price string) pricing.Listing {
	return pricing.Listing{
		Title:     "Apple iPhone 15 (Blue, 128 GB)",
		URL:       url,
		Platform:  pricing.PlatformFlipkart,
		PriceText: price,
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	amazon := &MockScraper{
		platform: pricing.PlatformAmazon,
		listings: []pricing.Listing{amazonListing("https://www.amazon.in/dp/B0TEST1", "₹61,999")},
		offerText: map[string][]string{
			"https://www.amazon.in/dp/B0TEST1": {"5% cashback up to ₹1,800 on Amazon Pay ICICI Bank Credit Card"},
		},
	}
	flipkart := &MockScraper{
		platform: pricing.PlatformFlipkart,
		listings: []pricing.Listing{flipkartListing("https://www.flipkart.com/p1?pid=X", "₹61,490")},
	}
	pub := &MockPublisher{}
	engine := pricing.NewEngine(nil, nil)

	a := NewAnalyzer([]scraper.Scraper{amazon, flipkart}, engine, pub, 6)

	report, err := a.Analyze(context.Background(), "iPhone 15",
		[]string{"Amazon Pay ICICI Credit Card"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "iPhone 15", report.Query)
	assert.Equal(t, 2, report.TotalProducts)
	assert.Equal(t, 0, report.SkippedListings)
	require.Len(t, report.Products, 2)

	// Amazon wins after its card discount: 61,999 - 1,800 = 60,199
	assert.Equal(t, "https://www.amazon.in/dp/B0TEST1", report.Products[0].ProductURL)
	assert.Equal(t, 60199.0, report.Products[0].EffectivePrice)
	assert.Equal(t, 61490.0, report.Products[1].EffectivePrice)

	// The detail page was fetched for offer enrichment
	assert.Contains(t, amazon.offerCalls, "https://www.amazon.in/dp/B0TEST1")
}

func TestAnalyzer_PublishesReport(t *testing.T) {
	amazon := &MockScraper{
		platform: pricing.PlatformAmazon,
		listings: []pricing.Listing{amazonListing("u1", "₹9,999")},
	}
	pub := &MockPublisher{}

	a := NewAnalyzer([]scraper.Scraper{amazon}, pricing.NewEngine(nil, nil), pub, 0)

	_, err := a.Analyze(context.Background(), "iPhone 15", nil, 0)
	require.NoError(t, err)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, 1, pub.trims)

	var published Report
	require.NoError(t, json.Unmarshal(pub.messages[0], &published))
	assert.Equal(t, "iPhone 15", published.Query)
	assert.Equal(t, 1, published.TotalProducts)
}

func TestAnalyzer_FailingScraperTolerated(t *testing.T) {
	good := &MockScraper{
		platform: pricing.PlatformAmazon,
		listings: []pricing.Listing{amazonListing("u1", "₹9,999")},
	}
	bad := &MockScraper{
		platform: pricing.PlatformFlipkart,
		fetchErr: assert.AnError,
	}

	a := NewAnalyzer([]scraper.Scraper{good, bad}, pricing.NewEngine(nil, nil), nil, 0)

	report, err := a.Analyze(context.Background(), "iPhone 15", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalProducts)
}

func TestAnalyzer_DetailFetchFailureTolerated(t *testing.T) {
	amazon := &MockScraper{
		platform:  pricing.PlatformAmazon,
		listings:  []pricing.Listing{amazonListing("u1", "₹9,999")},
		offersErr: assert.AnError,
	}

	a := NewAnalyzer([]scraper.Scraper{amazon}, pricing.NewEngine(nil, nil), nil, 6)

	report, err := a.Analyze(context.Background(), "iPhone 15", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalProducts)
	assert.Equal(t, 0.0, report.Products[0].TotalDiscount)
}

func TestAnalyzer_DedupByURL(t *testing.T) {
	shared := amazonListing("https://www.amazon.in/dp/B0TEST1", "₹9,999")
	a1 := &MockScraper{platform: pricing.PlatformAmazon, listings: []pricing.Listing{shared, shared}}

	a := NewAnalyzer([]scraper.Scraper{a1}, pricing.NewEngine(nil, nil), nil, 0)

	report, err := a.Analyze(context.Background(), "iPhone 15", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalProducts)
}

func TestAnalyzer_MaxPerPlatform(t *testing.T) {
	amazon := &MockScraper{
		platform: pricing.PlatformAmazon,
		listings: []pricing.Listing{
			amazonListing("u1", "₹9,999"),
			amazonListing("u2", "₹8,999"),
			amazonListing("u3", "₹7,999"),
		},
	}

	a := NewAnalyzer([]scraper.Scraper{amazon}, pricing.NewEngine(nil, nil), nil, 0)

	report, err := a.Analyze(context.Background(), "iPhone 15", nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalProducts)
}

func TestAnalyzer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := &MockScraper{platform: pricing.PlatformAmazon}

	a := NewAnalyzer([]scraper.Scraper{slow}, pricing.NewEngine(nil, nil), nil, 0)

	// A cancelled context surfaces as an error, not a hang
	done := make(chan struct{})
	go func() {
		_, err := a.Analyze(ctx, "iPhone 15", nil, 0)
		_ = err
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Analyze did not return after context cancellation")
	}
}
