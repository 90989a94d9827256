package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

const (
	CheaperAmazon  = "Amazon"
	CheaperWalmart = "Walmart"
	SamePrice      = "Same Price"
)

// CalculateSavings compares the top Amazon and Walmart prices. Savings are
// whole rupees; the percentage is of the higher price, to one decimal.
func CalculateSavings(amazon, walmart float64) types.SavingsResult {
	a := decimal.NewFromFloat(amazon)
	w := decimal.NewFromFloat(walmart)

	var higher decimal.Decimal
	result := types.SavingsResult{}
	switch a.Cmp(w) {
	case 1:
		higher = a
		result.Cheaper, result.SaveOn = CheaperWalmart, "walmart"
	case -1:
		higher = w
		result.Cheaper, result.SaveOn = CheaperAmazon, "amazon"
	default:
		return types.SavingsResult{Cheaper: SamePrice, SaveOn: "none"}
	}

	diff := a.Sub(w).Abs()
	result.Savings = diff.Round(0).InexactFloat64()
	result.Percentage = diff.Div(higher).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
	return result
}
