package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

func titlesOf(ls []types.NormalizedListing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}

func rankFixture() []types.NormalizedListing {
	return []types.NormalizedListing{
		listing(types.SourceAmazon, "a", 300, 4.0),
		listing(types.SourceAmazon, "b", 100),
		listing(types.SourceAmazon, "c", 200, 4.8),
		listing(types.SourceAmazon, "d", 100, 3.0),
	}
}

func TestSortListings(t *testing.T) {
	tests := []struct {
		mode types.SortMode
		want []string
	}{
		{types.SortPriceLow, []string{"b", "d", "c", "a"}},
		{types.SortPriceHigh, []string{"a", "c", "b", "d"}},
		// unrated sorts as zero
		{types.SortRatingHigh, []string{"c", "a", "d", "b"}},
		// unrated scores with the default 4.0: b = 79.9, a = 79.7
		{types.SortBestDeal, []string{"c", "b", "a", "d"}},
		{types.SortMode("newest"), []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			ls := rankFixture()
			SortListings(ls, tt.mode)
			assert.Equal(t, tt.want, titlesOf(ls))
		})
	}
}

func TestSortListings_Stable(t *testing.T) {
	ls := []types.NormalizedListing{
		listing(types.SourceWalmart, "first", 500, 4.0),
		listing(types.SourceWalmart, "second", 500, 4.0),
		listing(types.SourceWalmart, "third", 500, 4.0),
	}

	for _, mode := range []types.SortMode{types.SortPriceLow, types.SortPriceHigh, types.SortRatingHigh, types.SortBestDeal} {
		SortListings(ls, mode)
		assert.Equal(t, []string{"first", "second", "third"}, titlesOf(ls), string(mode))
	}
}

func TestFilterByRating(t *testing.T) {
	got := FilterByRating(rankFixture(), 3.5)
	assert.Equal(t, []string{"a", "c"}, titlesOf(got))

	assert.Empty(t, FilterByRating(rankFixture(), 5))
	assert.Empty(t, FilterByRating(nil, 0))
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, types.SortPriceLow, ParseSortMode(""))
	assert.Equal(t, types.SortBestDeal, ParseSortMode("best_deal"))
	assert.Equal(t, types.SortMode("bogus"), ParseSortMode("bogus"))
}
