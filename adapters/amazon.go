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

// AmazonAdapter queries the amazon engine of the search API
type AmazonAdapter struct {
	*BaseAdapter
}

// NewAmazonAdapter creates a new Amazon adapter
func NewAmazonAdapter(config *types.Config, logger types.Logger) *AmazonAdapter {
	return &AmazonAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// NewAmazonAdapterWithClient creates an Amazon adapter on a shared HTTP client
func NewAmazonAdapterWithClient(config *types.Config, logger types.Logger, client *utils.HTTPClient) *AmazonAdapter {
	return &AmazonAdapter{
		BaseAdapter: NewBaseAdapterWithClient(config, logger, client),
	}
}

// GetStoreName returns the store name
func (a *AmazonAdapter) GetStoreName() string {
	return "amazon"
}

// Search returns the accepted raw listings for query, in upstream order
func (a *AmazonAdapter) Search(ctx context.Context, query string) ([]types.RawListing, error) {
	params := url.Values{}
	params.Set("engine", "amazon")
	params.Set("amazon_domain", a.config.AmazonDomain)
	params.Set("k", query)

	items, err := a.FetchOrganicResults(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("amazon search failed: %w", err)
	}

	listings := make([]types.RawListing, 0, len(items))
	for i, item := range items {
		var result types.AmazonResult
		if err := json.Unmarshal(item, &result); err != nil {
			a.logger.Debugf("Skipping malformed amazon result %d: %v", i, err)
			continue
		}
		if !a.Accept(&result) {
			continue
		}
		listings = append(listings, types.RawListing{Source: types.SourceAmazon, Amazon: &result})
	}

	a.logger.Debugf("Amazon returned %d results, %d accepted", len(items), len(listings))
	return listings, nil
}

// Accept applies the brand-new and outright-price checks to a raw result
func (a *AmazonAdapter) Accept(result *types.AmazonResult) bool {
	return pricing.IsBrandNew(result.Title.StrOr("")) &&
		pricing.IsValidPrice(result.Price.Text())
}

// Normalize parses an accepted listing. It reports false when the listing
// has no usable price.
func (a *AmazonAdapter) Normalize(raw types.RawListing) (types.NormalizedListing, bool) {
	if raw.Amazon == nil {
		return types.NormalizedListing{}, false
	}
	result := raw.Amazon

	price := pricing.ParseAmazonPrice(result.Price)
	value, ok := price.Value()
	if !ok {
		return types.NormalizedListing{}, false
	}

	return types.NormalizedListing{
		Title:        a.Title(result.Title),
		Price:        value,
		PriceDisplay: price.Display(),
		Link:         ValidateURL(result.Link.StrOr("")),
		Image:        result.Thumbnail.StrOr(""),
		Rating:       types.ParseRating(result.Rating),
		Source:       types.SourceAmazon,
		Currency:     Currency,
		Condition:    ConditionNew,
	}, true
}
