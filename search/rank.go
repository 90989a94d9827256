package search

import (
	"sort"
	"strings"

	"github.com/Ishitag04/price-comparison-app/internal/types"
	"github.com/Ishitag04/price-comparison-app/pricing"
)

// FilterByRating keeps listings rated at least threshold. Unrated listings never
// meet a threshold.
func FilterByRating(listings []types.NormalizedListing, threshold float64) []types.NormalizedListing {
	kept := listings[:0]
	for _, l := range listings {
		if l.Rating.Valid && l.Rating.Value >= threshold {
			kept = append(kept, l)
		}
	}
	return kept
}

// SortListings orders listings in place. Equal keys keep upstream order and
// an unknown mode leaves the order untouched.
func SortListings(listings []types.NormalizedListing, mode types.SortMode) {
	var less func(a, b types.NormalizedListing) bool

	switch mode {
	case types.SortPriceLow:
		less = func(a, b types.NormalizedListing) bool { return a.Price < b.Price }
	case types.SortPriceHigh:
		less = func(a, b types.NormalizedListing) bool { return a.Price > b.Price }
	case types.SortRatingHigh:
		less = func(a, b types.NormalizedListing) bool { return sortRating(a) > sortRating(b) }
	case types.SortBestDeal:
		less = func(a, b types.NormalizedListing) bool { return pricing.Score(a) > pricing.Score(b) }
	default:
		return
	}

	sort.SliceStable(listings, func(i, j int) bool {
		return less(listings[i], listings[j])
	})
}

// sortRating ranks unrated listings as zero stars
func sortRating(l types.NormalizedListing) float64 {
	if !l.Rating.Valid {
		return 0
	}
	return l.Rating.Value
}

// ParseSortMode maps a request value onto a sort mode. An empty value is
// DefaultSort; unknown values pass through and leave upstream order.
func ParseSortMode(s string) types.SortMode {
	if s = strings.TrimSpace(s); s == "" {
		return DefaultSort
	}
	return types.SortMode(s)
}
