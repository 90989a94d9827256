// Package pricing holds the stateless rules applied to store listings:
// price parsing, the acceptance filters, deal scoring, the synthetic price
// history and the savings comparison.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

// financingTerms mark prices that are not an outright sale
var financingTerms = []string{
	"month", "/month", "per month", "monthly",
	"emi", "finance", "financing", "payment plan",
	"subscription", "per year", "yearly",
	"installment", "terms apply", "apr",
}

// priceRegexp captures the first numeric token, thousands separators included
var priceRegexp = regexp.MustCompile(`[\d,]+\.?\d*`)

// Price is the outcome of parsing a raw price field: either a parsed,
// non-negative amount or unavailable.
type Price struct {
	value   float64
	display string
	ok      bool
}

// Unavailable is the parse result for a field without a usable price
var Unavailable = Price{}

// Parsed returns an available price. Negative or non-finite amounts are
// never available.
func Parsed(value float64, display string) Price {
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return Unavailable
	}
	return Price{value: value, display: display, ok: true}
}

// Available reports whether a price was parsed
func (p Price) Available() bool {
	return p.ok
}

// Value returns the amount and whether it is available
func (p Price) Value() (float64, bool) {
	return p.value, p.ok
}

// Display returns the price as text, or "N/A" when unavailable
func (p Price) Display() string {
	if !p.ok {
		return "N/A"
	}
	return p.display
}

// ContainsFinancingTerms reports whether text mentions instalments,
// subscriptions or any other non-outright pricing.
func ContainsFinancingTerms(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range financingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// ExtractNumber parses the first numeric token of text, dropping thousands separators.
// Examples:
//
//	"₹1,29,999.00" → 129999.00
//	"$49.99"       → 49.99
//	"Price: N/A"   → unavailable
func ExtractNumber(text string) Price {
	match := priceRegexp.FindString(text)
	if match == "" {
		return Unavailable
	}

	cleaned := strings.ReplaceAll(match, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Unavailable
	}
	return Parsed(value, cleaned)
}

// ParseAmazonPrice reads the amazon engine's price field, which is either
// a display string ("₹1,299"), a plain number, or an object with a value.
func ParseAmazonPrice(f types.RawField) Price {
	if ContainsFinancingTerms(f.Text()) {
		return Unavailable
	}

	if obj, ok := f.Object(); ok {
		value, found := obj["value"]
		if !found || value.StrOr("") == "N/A" {
			return Unavailable
		}
		return parseExact(value)
	}

	if s, ok := f.Str(); ok {
		return ExtractNumber(s)
	}

	if n, ok := f.Number(); ok {
		return Parsed(n, formatNumber(n))
	}

	return Unavailable
}

// ParseWalmartPrice reads a walmart result's price in USD and converts it
// to INR. The primary offer's offer_price wins; the price field (object or
// number) is the fallback.
func ParseWalmartPrice(item *types.WalmartResult, usdToInr float64) Price {
	if item == nil {
		return Unavailable
	}

	if offer, ok := item.PrimaryOffer.Object(); ok {
		if offerPrice, found := offer["offer_price"]; found && truthy(offerPrice) &&
			!ContainsFinancingTerms(offerPrice.Text()) {
			usd := parseExact(offerPrice)
			if amount, ok := usd.Value(); ok {
				return ConvertToINR(amount, usdToInr)
			}
			return Unavailable
		}
	}

	if !item.Price.Present() {
		return Unavailable
	}

	if obj, ok := item.Price.Object(); ok {
		value, found := obj["value"]
		if !found || value.StrOr("") == "N/A" || ContainsFinancingTerms(value.Text()) {
			return Unavailable
		}
		if amount, ok := parseExact(value).Value(); ok {
			return ConvertToINR(amount, usdToInr)
		}
		return Unavailable
	}

	if n, ok := item.Price.Number(); ok {
		return ConvertToINR(n, usdToInr)
	}

	return Unavailable
}

// ConvertToINR converts a USD amount at the given rate, rounded to whole rupees
func ConvertToINR(usd, rate float64) Price {
	inr := decimal.NewFromFloat(usd).Mul(decimal.NewFromFloat(rate)).Round(0)
	return Parsed(inr.InexactFloat64(), inr.StringFixed(0))
}

// parseExact accepts a JSON number or a string that is entirely a number
func parseExact(f types.RawField) Price {
	if n, ok := f.Number(); ok {
		return Parsed(n, formatNumber(n))
	}
	if s, ok := f.Str(); ok {
		s = strings.TrimSpace(s)
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return Parsed(n, s)
		}
	}
	return Unavailable
}

// truthy mirrors how the search API signals "no offer": null, 0 or ""
func truthy(f types.RawField) bool {
	if f.IsNull() {
		return false
	}
	if n, ok := f.Number(); ok {
		return n != 0
	}
	if s, ok := f.Str(); ok {
		return s != ""
	}
	return true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
