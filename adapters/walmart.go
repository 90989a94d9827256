package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/pricing"
	"github.com/Ishitag04/price-comparison-app/utils"
)

// emptyOffer is how a result without a primary offer reads to the price check
const emptyOffer = "{}"

// WalmartAdapter queries the walmart engine of the search API. Prices come
// back in USD and are converted to INR.
type WalmartAdapter struct {
	*BaseAdapter
}

// NewWalmartAdapter creates a new Walmart adapter
func NewWalmartAdapter(config *types.Config, logger types.Logger) *WalmartAdapter {
	return &WalmartAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// NewWalmartAdapterWithClient creates a Walmart adapter on a shared HTTP client
func NewWalmartAdapterWithClient(config *types.Config, logger types.Logger, client *utils.HTTPClient) *WalmartAdapter {
	return &WalmartAdapter{
		BaseAdapter: NewBaseAdapterWithClient(config, logger, client),
	}
}

// GetStoreName returns the store name
func (w *WalmartAdapter) GetStoreName() string {
	return "walmart"
}

// Search returns the accepted raw listings for query, in upstream order
func (w *WalmartAdapter) Search(ctx context.Context, query string) ([]types.RawListing, error) {
	params := url.Values{}
	params.Set("engine", "walmart")
	params.Set("query", query)

	items, err := w.FetchOrganicResults(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("walmart search failed: %w", err)
	}

	listings := make([]types.RawListing, 0, len(items))
	for i, item := range items {
		var result types.WalmartResult
		if err := json.Unmarshal(item, &result); err != nil {
			w.logger.Debugf("Skipping malformed walmart result %d: %v", i, err)
			continue
		}
		if !w.Accept(&result) {
			continue
		}
		listings = append(listings, types.RawListing{Source: types.SourceWalmart, Walmart: &result})
	}

	w.logger.Debugf("Walmart returned %d results, %d accepted", len(items), len(listings))
	return listings, nil
}

// Accept applies the brand-new, outright-price and carrier-lock checks.
// The price check reads the primary offer as a whole.
func (w *WalmartAdapter) Accept(result *types.WalmartResult) bool {
	title := result.Title.StrOr("")
	offer := emptyOffer
	if result.PrimaryOffer.Present() {
		offer = result.PrimaryOffer.Text()
	}

	return pricing.IsBrandNew(title) &&
		pricing.IsValidPrice(offer) &&
		!pricing.IsCarrierLocked(title)
}

// Normalize parses an accepted listing. It reports false when the listing
// has no usable price.
func (w *WalmartAdapter) Normalize(raw types.RawListing) (types.NormalizedListing, bool) {
	if raw.Walmart == nil {
		return types.NormalizedListing{}, false
	}
	result := raw.Walmart

	price := pricing.ParseWalmartPrice(result, w.config.UsdToInr)
	value, ok := price.Value()
	if !ok {
		return types.NormalizedListing{}, false
	}

	link := result.Link.StrOr("")
	if result.ProductPageURL.Present() {
		link = result.ProductPageURL.StrOr("")
	}

	return types.NormalizedListing{
		Title:        w.Title(result.Title),
		Price:        value,
		PriceDisplay: price.Display(),
		Link:         ValidateURL(link),
		Image:        result.Thumbnail.StrOr(""),
		Rating:       types.ParseRating(result.Rating),
		Source:       types.SourceWalmart,
		Currency:     Currency,
		Condition:    ConditionNew,
	}, true
}
