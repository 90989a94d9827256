package pricing

import "github.com/Ishitag04/price-comparison-app/internal/types"

// ReviewSummaryFor maps a rating onto its display badge. Listings without a
// numeric rating get no summary.
func ReviewSummaryFor(r types.Rating) *types.ReviewSummary {
	if !r.Valid {
		return nil
	}

	switch {
	case r.Value >= 4.5:
		return &types.ReviewSummary{Sentiment: "Highly Rated", Stars: "⭐⭐⭐⭐⭐", Color: "green", Badge: "Excellent"}
	case r.Value >= 4.0:
		return &types.ReviewSummary{Sentiment: "Well Rated", Stars: "⭐⭐⭐⭐", Color: "blue", Badge: "Good"}
	case r.Value >= 3.5:
		return &types.ReviewSummary{Sentiment: "Good", Stars: "⭐⭐⭐", Color: "orange", Badge: "Average"}
	default:
		return &types.ReviewSummary{Sentiment: "Average", Stars: "⭐⭐", Color: "gray", Badge: "Fair"}
	}
}

// InStock is the stock status shown for every listing; the search API
// reports no availability.
func InStock() types.StockStatus {
	return types.StockStatus{InStock: true, Status: "In Stock", Icon: "✅"}
}
