package pricing

import (
	"math"
	"math/rand"
	"time"

	"github.com/Ishitag04/price-comparison-app/internal/types"
)

const (
	historyDays = 30

	baselineFactor = 1.20
	dailyTrend     = 0.0066
	weekdayAdjust  = 0.01
	weekendAdjust  = -0.02
	noiseSpread    = 0.06
	floorFactor    = 0.85

	todayLabel = "Today"
	dateLayout = "02 Jan"
)

// Rand is the source of daily noise
type Rand interface {
	Float64() float64
}

// History synthesizes an illustrative 30-day price trend. The trend is
// fabricated for display; it is not a record of past prices.
type History struct {
	Rand Rand
	Now  func() time.Time
}

// GenerateHistory synthesizes a history with fresh randomness for this call
func GenerateHistory(price float64) []types.PricePoint {
	h := History{
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:  time.Now,
	}
	return h.Generate(price)
}

// Generate returns 31 points, oldest first. The last point is labelled
// "Today" and carries price unchanged. No earlier point is below 85% of price.
func (h History) Generate(price float64) []types.PricePoint {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	r := h.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	today := now()
	base := price * baselineFactor
	floor := price * floorFactor
	points := make([]types.PricePoint, 0, historyDays+1)

	for day := historyDays; day >= 1; day-- {
		elapsed := historyDays - day
		trend := float64(elapsed) * price * dailyTrend

		weekly := weekdayAdjust
		if dow := elapsed % 7; dow == 5 || dow == 6 {
			weekly = weekendAdjust
		}

		noise := (r.Float64() - 0.5) * noiseSpread

		value := base - trend + base*weekly + base*noise
		value = math.Max(value, floor)

		// rounding must not take a floored value back under the floor
		rounded := math.RoundToEven(value)
		if rounded < floor {
			rounded = math.Ceil(floor)
		}

		points = append(points, types.PricePoint{
			Date:  today.AddDate(0, 0, -day).Format(dateLayout),
			Price: rounded,
		})
	}

	return append(points, types.PricePoint{Date: todayLabel, Price: price})
}
