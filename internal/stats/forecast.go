package stats

import (
	"math"

	"github.com/chuthree/brew-guide/internal/model"
)

type CategoryForecast struct {
	Category       model.Category `json:"category"`
	RemainingG     float64        `json:"remaining_g"`
	RemainingValue float64        `json:"remaining_value"`
	// DaysUntilEmpty of 0 means the rate is not positive and no
	// estimate is possible.
	DaysUntilEmpty int `json:"days_until_empty"`
}

type Forecast struct {
	Categories          []CategoryForecast `json:"categories"`
	TotalRemainingG     float64            `json:"total_remaining_g"`
	TotalRemainingValue float64            `json:"total_remaining_value"`
	TotalDaysUntilEmpty int                `json:"total_days_until_empty"`
}

// ComputeForecast estimates days until each category's stock runs out
// at the given grams-per-day rates. Categories with nothing remaining
// and no rate are omitted; a category with stock but no measurable
// rate is listed with an unknown (zero) estimate.
func ComputeForecast(beans []model.Bean, dailyRates map[model.Category]float64) Forecast {
	remaining := make(map[model.Category]float64)
	value := make(map[model.Category]float64)
	for _, b := range beans {
		remaining[b.Category] += b.RemainingG
		if b.RemainingG > 0 && b.Price > 0 && b.CapacityG > 0 {
			value[b.Category] += b.RemainingG * b.Price / b.CapacityG
		}
	}

	var fc Forecast
	var totalRate float64
	for _, cat := range model.Categories {
		rem := remaining[cat]
		rate := dailyRates[cat]
		if rem <= 0 && rate <= 0 {
			continue
		}
		fc.Categories = append(fc.Categories, CategoryForecast{
			Category:       cat,
			RemainingG:     rem,
			RemainingValue: value[cat],
			DaysUntilEmpty: daysUntilEmpty(rem, rate),
		})
		fc.TotalRemainingG += rem
		fc.TotalRemainingValue += value[cat]
		totalRate += rate
	}
	fc.TotalDaysUntilEmpty = daysUntilEmpty(fc.TotalRemainingG, totalRate)
	return fc
}

func daysUntilEmpty(remaining, dailyRate float64) int {
	if dailyRate <= 0 || remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining / dailyRate))
}
