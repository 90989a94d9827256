package pricing

import "github.com/Ishitag04/price-comparison-app/internal/types"

const (
	// DefaultRating stands in for listings without a rating
	DefaultRating = 4.0

	BestDealReason = "Best value for money based on price and rating"
)

// EffectiveRating returns the listing's rating, or DefaultRating when it has none
func EffectiveRating(r types.Rating) float64 {
	if !r.Valid {
		return DefaultRating
	}
	return r.Value
}

// Score rates a listing: higher rating and lower price both score higher.
//
//	score = rating*20 - price/1000
func Score(l types.NormalizedListing) float64 {
	return EffectiveRating(l.Rating)*20 - l.Price/1000
}

// BestDeal picks the highest scoring listing. Ties keep the first one seen.
// It returns nil for an empty candidate set.
func BestDeal(candidates []types.NormalizedListing) *types.DealRecommendation {
	if len(candidates) == 0 {
		return nil
	}

	best := 0
	bestScore := Score(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if s := Score(candidates[i]); s > bestScore {
			best, bestScore = i, s
		}
	}

	return &types.DealRecommendation{
		Product: candidates[best],
		Reason:  BestDealReason,
		Score:   bestScore,
	}
}
