// Package search runs one product search end to end: it queries both
// stores, normalizes and filters their listings, orders and truncates each
// list, then picks the best deal and computes the savings between the two.
package search

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Ishitag04/price-comparison-app/adapters"
	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/pricing"
	"github.com/Ishitag04/price-comparison-app/utils"
)

// ErrEmptyQuery is returned for a blank search term
var ErrEmptyQuery = errors.New("empty search query")

// EmptyQueryMessage is shown to the user in place of ErrEmptyQuery
const EmptyQueryMessage = "Please enter a product name"

// NoResultsMessage is reported when neither store has a listing to show
const NoResultsMessage = "No results found. Try searching for a different product."

// DefaultSort is used when the caller does not pick a sort mode
const DefaultSort = types.SortPriceLow

// Store is a source of listings for one retail platform
type Store interface {
	GetStoreName() string
	Search(ctx context.Context, query string) ([]types.RawListing, error)
	Normalize(raw types.RawListing) (types.NormalizedListing, bool)
}

// Orchestrator runs searches against the Amazon and Walmart stores
type Orchestrator struct {
	config  *types.Config
	logger  types.Logger
	amazon  Store
	walmart Store
	client  *utils.HTTPClient

	// newHistory returns the synthesizer used for one search
	newHistory func() pricing.History
}

// NewOrchestrator creates an orchestrator whose two stores share one
// rate limited HTTP client.
func NewOrchestrator(config *types.Config, logger types.Logger) *Orchestrator {
	client := utils.NewHTTPClient(config, logger)
	o := NewOrchestratorWithStores(config, logger,
		adapters.NewAmazonAdapterWithClient(config, logger, client),
		adapters.NewWalmartAdapterWithClient(config, logger, client),
	)
	o.client = client
	return o
}

// NewOrchestratorWithStores creates an orchestrator over the given stores
func NewOrchestratorWithStores(config *types.Config, logger types.Logger, amazon, walmart Store) *Orchestrator {
	return &Orchestrator{
		config:  config,
		logger:  logger,
		amazon:  amazon,
		walmart: walmart,
		newHistory: func() pricing.History {
			return pricing.History{
				Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
				Now:  time.Now,
			}
		},
	}
}

// Search runs one search. A blank product returns ErrEmptyQuery together
// with a result carrying the error message; no store is queried. Store
// failures are logged and treated as an empty list for that store.
func (o *Orchestrator) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResult, error) {
	product := strings.TrimSpace(req.Product)
	sortBy := ParseSortMode(string(req.SortBy))

	result := &types.SearchResult{
		Product:   product,
		SortBy:    sortBy,
		MinRating: req.MinRating,
		Amazon:    []types.NormalizedListing{},
		Walmart:   []types.NormalizedListing{},
	}

	if product == "" {
		result.Error = EmptyQueryMessage
		return result, ErrEmptyQuery
	}

	o.logger.Infof("Searching for %q (sort=%s, min_rating=%q)", product, sortBy, req.MinRating)

	amazonRaw, walmartRaw := o.fetchAll(ctx, product)

	history := o.newHistory()
	minRating, hasMin := ParseMinRating(req.MinRating)

	result.Amazon = o.process(o.amazon, amazonRaw, history, sortBy, minRating, hasMin)
	result.Walmart = o.process(o.walmart, walmartRaw, history, sortBy, minRating, hasMin)

	candidates := make([]types.NormalizedListing, 0, len(result.Amazon)+len(result.Walmart))
	candidates = append(candidates, result.Amazon...)
	candidates = append(candidates, result.Walmart...)
	result.BestDeal = pricing.BestDeal(candidates)

	if len(result.Amazon) > 0 && len(result.Walmart) > 0 {
		savings := pricing.CalculateSavings(result.Amazon[0].Price, result.Walmart[0].Price)
		result.Savings = &savings
	}

	if len(candidates) == 0 {
		result.Error = NoResultsMessage
	}

	o.logger.Infof("Search for %q finished: %d amazon, %d walmart", product, len(result.Amazon), len(result.Walmart))
	return result, nil
}

// fetchAll queries both stores concurrently
func (o *Orchestrator) fetchAll(ctx context.Context, product string) (amazon, walmart []types.RawListing) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		amazon = o.fetch(ctx, o.amazon, product)
	}()
	go func() {
		defer wg.Done()
		walmart = o.fetch(ctx, o.walmart, product)
	}()

	wg.Wait()
	return amazon, walmart
}

func (o *Orchestrator) fetch(ctx context.Context, store Store, product string) []types.RawListing {
	if store == nil {
		return nil
	}
	listings, err := store.Search(ctx, product)
	if err != nil {
		o.logger.Warnf("Store %s failed, showing no results from it: %v", store.GetStoreName(), err)
		return nil
	}
	return listings
}

// process turns one store's accepted listings into its final display list
func (o *Orchestrator) process(store Store, raw []types.RawListing, history pricing.History,
	sortBy types.SortMode, minRating float64, hasMin bool) []types.NormalizedListing {
	listings := make([]types.NormalizedListing, 0, len(raw))
	if store == nil {
		return listings
	}

	for _, r := range raw {
		listing, ok := store.Normalize(r)
		if !ok {
			o.logger.Debugf("Dropping %s listing without a usable price: %q", store.GetStoreName(), r.Title())
			continue
		}

		listing.PriceHistory = history.Generate(listing.Price)
		listing.ReviewSummary = pricing.ReviewSummaryFor(listing.Rating)
		listing.Stock = pricing.InStock()
		listings = append(listings, listing)
	}

	if hasMin {
		listings = FilterByRating(listings, minRating)
	}
	SortListings(listings, sortBy)

	if limit := o.config.MaxResults; limit > 0 && len(listings) > limit {
		listings = listings[:limit]
	}
	return listings
}

// Close releases the stores' HTTP resources
func (o *Orchestrator) Close() {
	if o.client != nil {
		o.client.Close()
	}
}

// ParseMinRating reads the minimum rating threshold. It reports false when
// the value is not a number, which disables the threshold.
func ParseMinRating(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
