package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Source identifies one of the two retail platforms queried
type Source string

const (
	SourceAmazon  Source = "Amazon"
	SourceWalmart Source = "Walmart"
)

// SortMode selects how each source's listings are ordered
type SortMode string

const (
	SortPriceLow   SortMode = "price_low"
	SortPriceHigh  SortMode = "price_high"
	SortRatingHigh SortMode = "rating_high"
	SortBestDeal   SortMode = "best_deal"
)

// RawField holds one untrusted field of an upstream result exactly as it
// arrived. Accessors report whether the field has the expected JSON shape.
type RawField struct {
	raw json.RawMessage
}

// UnmarshalJSON keeps a copy of the field's JSON text
func (f *RawField) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	return nil
}

// MarshalJSON writes the field back out unchanged
func (f RawField) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// NewRawField builds a field from a Go value, mostly for tests and fixtures
func NewRawField(v interface{}) RawField {
	data, err := json.Marshal(v)
	if err != nil {
		return RawField{}
	}
	return RawField{raw: data}
}

// Present reports whether the key appeared in the upstream object (even as null)
func (f RawField) Present() bool {
	return len(f.raw) > 0
}

// IsNull reports whether the field is missing or an explicit JSON null
func (f RawField) IsNull() bool {
	return len(f.raw) == 0 || bytes.Equal(bytes.TrimSpace(f.raw), []byte("null"))
}

// Str returns the field as a string when it is a JSON string
func (f RawField) Str() (string, bool) {
	var s string
	if f.IsNull() || json.Unmarshal(f.raw, &s) != nil {
		return "", false
	}
	return s, true
}

// StrOr returns the string value or the fallback
func (f RawField) StrOr(fallback string) string {
	if s, ok := f.Str(); ok {
		return s
	}
	return fallback
}

// Number returns the field as a float when it is a JSON number
func (f RawField) Number() (float64, bool) {
	var n float64
	if f.IsNull() || json.Unmarshal(f.raw, &n) != nil {
		return 0, false
	}
	return n, true
}

// Object returns the field's members when it is a JSON object
func (f RawField) Object() (map[string]RawField, bool) {
	var obj map[string]RawField
	if f.IsNull() || json.Unmarshal(f.raw, &obj) != nil {
		return nil, false
	}
	return obj, true
}

// Text is the textual representation used for vocabulary checks: the
// unquoted value for strings, the JSON text for anything else, and an empty
// string when the field is absent.
func (f RawField) Text() string {
	if !f.Present() {
		return ""
	}
	if s, ok := f.Str(); ok {
		return s
	}
	return string(bytes.TrimSpace(f.raw))
}

// AmazonResult is one entry of the amazon engine's organic_results
type AmazonResult struct {
	Title     RawField `json:"title"`
	Price     RawField `json:"price"`
	Rating    RawField `json:"rating"`
	Thumbnail RawField `json:"thumbnail"`
	Link      RawField `json:"link"`
}

// WalmartResult is one entry of the walmart engine's organic_results
type WalmartResult struct {
	Title          RawField `json:"title"`
	PrimaryOffer   RawField `json:"primary_offer"`
	Price          RawField `json:"price"`
	Rating         RawField `json:"rating"`
	Thumbnail      RawField `json:"thumbnail"`
	Link           RawField `json:"link"`
	ProductPageURL RawField `json:"product_page_url"`
}

// RawListing is the per-source tagged union that leaves an adapter.
// Exactly one of Amazon or Walmart is set, matching Source.
type RawListing struct {
	Source  Source
	Amazon  *AmazonResult
	Walmart *WalmartResult
}

// Title returns the listing title, or an empty string when missing
func (r RawListing) Title() string {
	switch {
	case r.Amazon != nil:
		return r.Amazon.Title.StrOr("")
	case r.Walmart != nil:
		return r.Walmart.Title.StrOr("")
	}
	return ""
}

// Rating is a listing's star rating; listings without one render as "N/A"
type Rating struct {
	Value float64
	Valid bool
}

// NewRating returns a valid rating
func NewRating(v float64) Rating {
	return Rating{Value: v, Valid: true}
}

// ParseRating reads a rating from a number or a numeric string. NaN and
// infinities count as no rating.
func ParseRating(f RawField) Rating {
	n, ok := f.Number()
	if !ok {
		s, isStr := f.Str()
		if !isStr {
			return Rating{}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Rating{}
		}
		n = v
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Rating{}
	}
	return NewRating(n)
}

func (r Rating) String() string {
	if !r.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// MarshalJSON writes the rating as a number, or "N/A" when unavailable
func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid || math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return []byte(`"N/A"`), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON accepts the forms MarshalJSON produces
func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = ParseRating(RawField{raw: data})
	return nil
}

// PricePoint is one day of a synthesized price history
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ReviewSummary is a display badge derived from a rating
type ReviewSummary struct {
	Sentiment string `json:"sentiment"`
	Stars     string `json:"stars"`
	Color     string `json:"color"`
	Badge     string `json:"badge"`
}

// StockStatus describes availability of a listing
type StockStatus struct {
	InStock bool   `json:"in_stock"`
	Status  string `json:"status"`
	Icon    string `json:"icon"`
}

// NormalizedListing is a validated listing in the canonical currency
type NormalizedListing struct {
	Title         string         `json:"title"`
	Price         float64        `json:"price"`
	PriceDisplay  string         `json:"price_display"`
	Link          string         `json:"link,omitempty"`
	Image         string         `json:"image"`
	Rating        Rating         `json:"rating"`
	Source        Source         `json:"source"`
	Currency      string         `json:"currency"`
	Condition     string         `json:"condition"`
	PriceHistory  []PricePoint   `json:"price_history"`
	ReviewSummary *ReviewSummary `json:"review_summary,omitempty"`
	Stock         StockStatus    `json:"stock"`
}

// DealRecommendation is the single best listing across both sources
type DealRecommendation struct {
	Product NormalizedListing `json:"product"`
	Reason  string            `json:"reason"`
	Score   float64           `json:"score"`
}

// SavingsResult compares the top listing of each source
type SavingsResult struct {
	Savings    float64 `json:"savings"`
	Percentage float64 `json:"percentage"`
	Cheaper    string  `json:"cheaper"`
	SaveOn     string  `json:"save_on"`
}

// SearchRequest carries the caller's search parameters
type SearchRequest struct {
	Product   string   `json:"product"`
	SortBy    SortMode `json:"sort_by"`
	MinRating string   `json:"min_rating"`
	User      string   `json:"user,omitempty"`
}

// SearchResult is the assembled response for one search
type SearchResult struct {
	Product   string              `json:"product"`
	SortBy    SortMode            `json:"sort_by"`
	MinRating string              `json:"min_rating"`
	Amazon    []NormalizedListing `json:"amazon_results"`
	Walmart   []NormalizedListing `json:"walmart_results"`
	BestDeal  *DealRecommendation `json:"best_deal,omitempty"`
	Savings   *SavingsResult      `json:"savings,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Logger defines the logging interface
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
