package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/pricing"
)

type fakeStore struct {
	name     string
	listings []types.NormalizedListing
	err      error
	calls    int32
}

func (f *fakeStore) GetStoreName() string { return f.name }

func (f *fakeStore) Search(ctx context.Context, query string) ([]types.RawListing, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	raw := make([]types.RawListing, len(f.listings))
	for i := range f.listings {
		raw[i] = types.RawListing{
			Source: f.listings[i].Source,
			Amazon: &types.AmazonResult{Title: types.NewRawField(strconv.Itoa(i))},
		}
	}
	return raw, nil
}

func (f *fakeStore) Normalize(raw types.RawListing) (types.NormalizedListing, bool) {
	i, err := strconv.Atoi(raw.Title())
	if err != nil || i >= len(f.listings) {
		return types.NormalizedListing{}, false
	}
	return f.listings[i], true
}

func listing(source types.Source, title string, price float64, rating ...float64) types.NormalizedListing {
	l := types.NormalizedListing{Title: title, Price: price, Source: source}
	if len(rating) > 0 {
		l.Rating = types.NewRating(rating[0])
	}
	return l
}

type pinnedRand struct{}

func (pinnedRand) Float64() float64 { return 0.5 }

func newTestOrchestrator(amazon, walmart Store) *Orchestrator {
	o := NewOrchestratorWithStores(types.DefaultConfig(), logrus.New(), amazon, walmart)
	o.newHistory = func() pricing.History {
		return pricing.History{
			Rand: pinnedRand{},
			Now:  func() time.Time { return time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC) },
		}
	}
	return o
}

func TestSearch_EmptyQueryQueriesNothing(t *testing.T) {
	amazon := &fakeStore{name: "amazon"}
	walmart := &fakeStore{name: "walmart"}
	o := newTestOrchestrator(amazon, walmart)

	for _, q := range []string{"", "   ", "\t\n"} {
		result, err := o.Search(context.Background(), types.SearchRequest{Product: q})
		assert.ErrorIs(t, err, ErrEmptyQuery)
		require.NotNil(t, result)
		assert.Equal(t, "Please enter a product name", result.Error)
		assert.Empty(t, result.Amazon)
		assert.Empty(t, result.Walmart)
	}

	assert.Zero(t, atomic.LoadInt32(&amazon.calls))
	assert.Zero(t, atomic.LoadInt32(&walmart.calls))
}

func TestSearch_PhoneScenario(t *testing.T) {
	amazon := &fakeStore{name: "amazon", listings: []types.NormalizedListing{
		listing(types.SourceAmazon, "Phone A", 10000, 4.6),
	}}
	walmart := &fakeStore{name: "walmart", listings: []types.NormalizedListing{
		listing(types.SourceWalmart, "Phone W", 9000, 4.0),
	}}
	o := newTestOrchestrator(amazon, walmart)

	result, err := o.Search(context.Background(), types.SearchRequest{
		Product: "phone", SortBy: types.SortPriceLow, MinRating: "0",
	})
	require.NoError(t, err)

	require.Len(t, result.Amazon, 1)
	require.Len(t, result.Walmart, 1)
	assert.Empty(t, result.Error)

	require.NotNil(t, result.BestDeal)
	assert.Equal(t, "Phone A", result.BestDeal.Product.Title)
	assert.InDelta(t, 82.0, result.BestDeal.Score, 1e-9)
	assert.Equal(t, pricing.BestDealReason, result.BestDeal.Reason)

	require.NotNil(t, result.Savings)
	assert.Equal(t, types.SavingsResult{Savings: 1000, Percentage: 10.0, Cheaper: "Walmart", SaveOn: "walmart"}, *result.Savings)
}

func TestSearch_EnrichesListings(t *testing.T) {
	amazon := &fakeStore{name: "amazon", listings: []types.NormalizedListing{
		listing(types.SourceAmazon, "Cable", 499, 4.7),
	}}
	o := newTestOrchestrator(amazon, &fakeStore{name: "walmart"})

	result, err := o.Search(context.Background(), types.SearchRequest{Product: "cable", MinRating: "0"})
	require.NoError(t, err)
	require.Len(t, result.Amazon, 1)

	got := result.Amazon[0]
	require.Len(t, got.PriceHistory, 31)
	assert.Equal(t, types.PricePoint{Date: "Today", Price: 499}, got.PriceHistory[30])
	require.NotNil(t, got.ReviewSummary)
	assert.Equal(t, "Excellent", got.ReviewSummary.Badge)
	assert.True(t, got.Stock.InStock)
	assert.Equal(t, types.SortPriceLow, result.SortBy)
}

func TestSearch_UpstreamFailureDegrades(t *testing.T) {
	amazon := &fakeStore{name: "amazon", err: errors.New("connection refused")}
	walmart := &fakeStore{name: "walmart", listings: []types.NormalizedListing{
		listing(types.SourceWalmart, "Phone W", 9000, 4.0),
	}}
	o := newTestOrchestrator(amazon, walmart)

	result, err := o.Search(context.Background(), types.SearchRequest{Product: "phone", MinRating: "0"})
	require.NoError(t, err)

	assert.Empty(t, result.Amazon)
	assert.Len(t, result.Walmart, 1)
	assert.Nil(t, result.Savings)
	require.NotNil(t, result.BestDeal)
	assert.Equal(t, types.SourceWalmart, result.BestDeal.Product.Source)
	assert.Empty(t, result.Error)
}

func TestSearch_NoResults(t *testing.T) {
	amazon := &fakeStore{name: "amazon", err: errors.New("timeout")}
	walmart := &fakeStore{name: "walmart"}
	o := newTestOrchestrator(amazon, walmart)

	result, err := o.Search(context.Background(), types.SearchRequest{Product: "zzzz"})
	require.NoError(t, err)

	assert.Equal(t, NoResultsMessage, result.Error)
	assert.Nil(t, result.BestDeal)
	assert.Nil(t, result.Savings)
	assert.NotNil(t, result.Amazon)
	assert.NotNil(t, result.Walmart)
}

func TestSearch_MinRating(t *testing.T) {
	newStores := func() (*fakeStore, *fakeStore) {
		amazon := &fakeStore{name: "amazon", listings: []types.NormalizedListing{
			listing(types.SourceAmazon, "high", 100, 4.5),
			listing(types.SourceAmazon, "low", 50, 3.0),
			listing(types.SourceAmazon, "unrated", 10),
		}}
		walmart := &fakeStore{name: "walmart", listings: []types.NormalizedListing{
			listing(types.SourceWalmart, "zero", 10, 0),
		}}
		return amazon, walmart
	}

	tests := []struct {
		minRating string
		amazon    []string
		walmart   []string
	}{
		{"4", []string{"high"}, []string{}},
		{"0", []string{"low", "high"}, []string{"zero"}},
		{"", []string{"unrated", "low", "high"}, []string{"zero"}},
		{"abc", []string{"unrated", "low", "high"}, []string{"zero"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("min=%q", tt.minRating), func(t *testing.T) {
			o := newTestOrchestrator(newStores())
			result, err := o.Search(context.Background(), types.SearchRequest{
				Product: "x", SortBy: types.SortPriceLow, MinRating: tt.minRating,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.amazon, titlesOf(result.Amazon))
			assert.Equal(t, tt.walmart, titlesOf(result.Walmart))
		})
	}
}

func TestSearch_TruncatesAfterSorting(t *testing.T) {
	var ls []types.NormalizedListing
	for i := 1; i <= 12; i++ {
		ls = append(ls, listing(types.SourceAmazon, strconv.Itoa(i), float64(i*100), 4.0))
	}
	o := newTestOrchestrator(&fakeStore{name: "amazon", listings: ls}, &fakeStore{name: "walmart"})

	result, err := o.Search(context.Background(), types.SearchRequest{
		Product: "x", SortBy: types.SortPriceHigh, MinRating: "0",
	})
	require.NoError(t, err)

	require.Len(t, result.Amazon, 9)
	assert.Equal(t, 1200.0, result.Amazon[0].Price)
	assert.Equal(t, 400.0, result.Amazon[8].Price)
}

func TestSearch_SavingsUseTopOfEachList(t *testing.T) {
	amazon := &fakeStore{name: "amazon", listings: []types.NormalizedListing{
		listing(types.SourceAmazon, "cheap", 1000, 4.0),
		listing(types.SourceAmazon, "pricey", 2000, 4.0),
	}}
	walmart := &fakeStore{name: "walmart", listings: []types.NormalizedListing{
		listing(types.SourceWalmart, "only", 1500, 4.0),
	}}
	o := newTestOrchestrator(amazon, walmart)

	result, err := o.Search(context.Background(), types.SearchRequest{
		Product: "x", SortBy: types.SortPriceHigh, MinRating: "0",
	})
	require.NoError(t, err)

	require.NotNil(t, result.Savings)
	assert.Equal(t, 500.0, result.Savings.Savings)
	assert.Equal(t, "Walmart", result.Savings.Cheaper)
}

func TestParseMinRating(t *testing.T) {
	v, ok := ParseMinRating(" 3.5 ")
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	for _, s := range []string{"", "four", "NaN"} {
		_, ok := ParseMinRating(s)
		assert.False(t, ok, "input %q", s)
	}
}

// TestSearch_ThroughSearchAPI drives the real adapters against a fake search API
func TestSearch_ThroughSearchAPI(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Query().Get("engine") {
		case "amazon":
			w.Write([]byte(`{"organic_results": [
				{"title": "Phone A", "price": "₹10,000", "rating": 4.6, "link": "https://www.amazon.in/dp/A"},
				{"title": "Phone EMI", "price": "$49.99/month", "rating": 5}
			]}`))
		case "walmart":
			w.Write([]byte(`{"organic_results": [
				{"title": "Phone W", "primary_offer": {"offer_price": 107.78}, "rating": 4.0}
			]}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	config := types.DefaultConfig()
	config.APIKey = "test-key"
	config.BaseURL = server.URL
	config.UpstreamRatePerSec = 0

	o := NewOrchestrator(config, logrus.New())
	defer o.Close()

	result, err := o.Search(context.Background(), types.SearchRequest{
		Product: "phone", SortBy: types.SortPriceLow, MinRating: "0",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	require.Len(t, result.Amazon, 1)
	require.Len(t, result.Walmart, 1)
	assert.Equal(t, "Phone A", result.Amazon[0].Title)
	assert.Equal(t, 9000.0, result.Walmart[0].Price)

	require.NotNil(t, result.BestDeal)
	assert.Equal(t, types.SourceAmazon, result.BestDeal.Product.Source)
	require.NotNil(t, result.Savings)
	assert.Equal(t, 1000.0, result.Savings.Savings)
	assert.Equal(t, 10.0, result.Savings.Percentage)
	assert.Equal(t, "Walmart", result.Savings.Cheaper)
}

func TestSearch_NonFiniteRatingIsUnrated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("engine") == "amazon" {
			w.Write([]byte(`{"organic_results": [
				{"title": "Phone", "price": "₹10,000", "rating": "NaN"},
				{"title": "Phone Max", "price": "₹20,000", "rating": "Infinity"}
			]}`))
			return
		}
		w.Write([]byte(`{"organic_results": []}`))
	}))
	defer server.Close()

	config := types.DefaultConfig()
	config.APIKey = "test-key"
	config.BaseURL = server.URL
	config.UpstreamRatePerSec = 0

	o := NewOrchestrator(config, logrus.New())
	defer o.Close()

	result, err := o.Search(context.Background(), types.SearchRequest{Product: "phone", SortBy: types.SortPriceLow})
	require.NoError(t, err)

	require.Len(t, result.Amazon, 2)
	for _, l := range result.Amazon {
		assert.False(t, l.Rating.Valid, l.Title)
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rating":"N/A"`)
}
