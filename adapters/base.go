package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/utils"
)

const (
	// Currency is the symbol every normalized listing is priced in
	Currency = "₹"
	// ConditionNew is the only condition that survives filtering
	ConditionNew = "Brand New"

	missingTitle = "N/A"
)

// ErrNoAPIKey is returned when a search is attempted without credentials
var ErrNoAPIKey = errors.New("search API key is not configured")

// searchResponse is the part of a search API response the adapters read
type searchResponse struct {
	OrganicResults []json.RawMessage `json:"organic_results"`
	Error          string            `json:"error"`
}

// BaseAdapter provides the plumbing shared by store adapters: the rate
// limited HTTP client, the search API envelope and display-field cleanup.
type BaseAdapter struct {
	config     *types.Config
	logger     types.Logger
	httpClient *utils.HTTPClient
	policy     *bluemonday.Policy
}

// NewBaseAdapter creates a new base adapter with its own HTTP client
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return NewBaseAdapterWithClient(config, logger, utils.NewHTTPClient(config, logger))
}

// NewBaseAdapterWithClient creates a base adapter sharing an existing HTTP
// client, so several stores draw from one outbound limiter.
func NewBaseAdapterWithClient(config *types.Config, logger types.Logger, client *utils.HTTPClient) *BaseAdapter {
	return &BaseAdapter{
		config:     config,
		logger:     logger,
		httpClient: client,
		policy:     bluemonday.StrictPolicy(),
	}
}

// FetchOrganicResults runs one engine query and returns the raw
// organic_results entries. A response without results is an empty slice.
func (b *BaseAdapter) FetchOrganicResults(ctx context.Context, params url.Values) ([]json.RawMessage, error) {
	if b.config.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	query.Set("api_key", b.config.APIKey)

	body, err := b.httpClient.GetWithParams(ctx, b.config.BaseURL, query)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if resp.Error != "" && len(resp.OrganicResults) == 0 {
		return nil, fmt.Errorf("search API error: %s", resp.Error)
	}

	return resp.OrganicResults, nil
}

// CleanText strips markup from an upstream display string and trims it
func (b *BaseAdapter) CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(b.policy.Sanitize(s)))
}

// Title returns the cleaned title field, or "N/A" when there is none
func (b *BaseAdapter) Title(f types.RawField) string {
	title, ok := f.Str()
	if !ok {
		return missingTitle
	}
	if cleaned := b.CleanText(title); cleaned != "" {
		return cleaned
	}
	return missingTitle
}

// Config returns the adapter configuration
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}

// Close releases the HTTP client's idle connections
func (b *BaseAdapter) Close() {
	if b.httpClient != nil {
		b.httpClient.Close()
	}
}

// ValidateURL turns an upstream link into something safe to render as an
// href. Empty links and "#" yield "", utm_* tracking parameters are
// dropped and a missing scheme becomes https.
func ValidateURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "#" {
		return ""
	}

	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if strings.HasPrefix(strings.ToLower(key), "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	return u.String()
}
