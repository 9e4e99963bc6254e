package stats

import (
	"time"

	"github.com/chuthree/brew-guide/internal/model"
)

type CategoryStat struct {
	AmountG float64 `json:"amount_g"`
	Cost    float64 `json:"cost"`
	Percent float64 `json:"percent"`
}

type Aggregate struct {
	Granularity Granularity                        `json:"granularity"`
	Period      string                             `json:"period,omitempty"`
	TotalAmount float64                            `json:"total_amount_g"`
	TotalCost   float64                            `json:"total_cost"`
	ByCategory  map[model.Category]CategoryStat    `json:"by_category"`
	AvgAmount   float64                            `json:"avg_amount_g_per_day"`
	AvgCost     float64                            `json:"avg_cost_per_day"`
	ActualDays  int                                `json:"actual_days"`
	EventCount  int                                `json:"event_count"`
	// Estimated marks totals derived from capacity deltas rather than
	// journal events (the pre-logging fallback).
	Estimated      bool       `json:"estimated,omitempty"`
	EffectiveStart *time.Time `json:"effective_start,omitempty"`
	EffectiveEnd   *time.Time `json:"effective_end,omitempty"`
}

// ComputeAggregate folds every qualifying event inside the selected
// period into totals, a per-category breakdown, and daily averages
// normalized over the calendar days actually covered by data. With an
// all-time selection, no qualifying events, and at least one bean on
// hand, totals are estimated from capacity deltas instead.
func ComputeAggregate(records []model.Record, beans []model.Bean, g Granularity, periodKey string, now time.Time) (Aggregate, error) {
	interval, err := PeriodInterval(g, periodKey, now, false)
	if err != nil {
		return Aggregate{}, err
	}
	// Clamped variant caps a period still in progress at now; event
	// membership keeps the nominal boundaries.
	clamped, err := PeriodInterval(g, periodKey, now, true)
	if err != nil {
		return Aggregate{}, err
	}

	agg := Aggregate{
		Granularity: g,
		Period:      periodKey,
		ByCategory:  make(map[model.Category]CategoryStat),
		ActualDays:  1,
	}

	var inRange []Event
	for _, ev := range Classify(records, beans) {
		if interval.Contains(ev.Time) {
			inRange = append(inRange, ev)
		}
	}

	if len(inRange) == 0 {
		if periodKey == "" && len(beans) > 0 {
			estimateFromCapacity(&agg, beans, now)
		}
		finishAverages(&agg)
		return agg, nil
	}

	for _, ev := range inRange {
		agg.TotalAmount += ev.AmountG
		agg.TotalCost += ev.Cost
		if ev.HasCategory {
			stat := agg.ByCategory[ev.Category]
			stat.AmountG += ev.AmountG
			stat.Cost += ev.Cost
			agg.ByCategory[ev.Category] = stat
		}
	}
	agg.EventCount = len(inRange)

	// Effective range: from the later of the nominal start and the
	// first in-range event, to the earlier of the nominal end and now.
	// Days before the first record or after "now" would only dilute
	// the daily averages.
	start := inRange[0].Time
	if start.Before(interval.Start) {
		start = interval.Start
	}
	end := clamped.End
	agg.EffectiveStart = &start
	agg.EffectiveEnd = &end
	agg.ActualDays = daysCovered(start, end)

	finishAverages(&agg)
	return agg, nil
}

// estimateFromCapacity infers consumption from capacity-vs-remaining
// deltas for users who track stock without logging discrete events,
// anchored at the earliest bean's creation time.
func estimateFromCapacity(agg *Aggregate, beans []model.Bean, now time.Time) {
	var earliest time.Time
	for _, b := range beans {
		consumed := b.CapacityG - b.RemainingG
		if consumed < 0 {
			consumed = 0
		}
		var cost float64
		if consumed > 0 && b.Price > 0 && b.CapacityG > 0 {
			cost = consumed * b.Price / b.CapacityG
		}
		agg.TotalAmount += consumed
		agg.TotalCost += cost
		if consumed > 0 {
			stat := agg.ByCategory[b.Category]
			stat.AmountG += consumed
			stat.Cost += cost
			agg.ByCategory[b.Category] = stat
		}
		if earliest.IsZero() || b.CreatedAt.Before(earliest) {
			earliest = b.CreatedAt
		}
	}
	agg.Estimated = true
	if !earliest.IsZero() {
		agg.ActualDays = daysCovered(earliest, now)
	}
}

func finishAverages(agg *Aggregate) {
	if agg.ActualDays < 1 {
		agg.ActualDays = 1
	}
	days := float64(agg.ActualDays)
	agg.AvgAmount = agg.TotalAmount / days
	agg.AvgCost = agg.TotalCost / days

	for cat, stat := range agg.ByCategory {
		if agg.TotalAmount > 0 {
			stat.Percent = stat.AmountG / agg.TotalAmount * 100
		}
		agg.ByCategory[cat] = stat
	}
}

// DailyRates extracts the per-category grams-per-day rates the
// inventory forecaster consumes. Forecasts always run against the
// current all-time rate, so callers feed this the all-time aggregate.
func DailyRates(agg Aggregate) map[model.Category]float64 {
	rates := make(map[model.Category]float64, len(agg.ByCategory))
	days := float64(agg.ActualDays)
	if days < 1 {
		days = 1
	}
	for cat, stat := range agg.ByCategory {
		rates[cat] = stat.AmountG / days
	}
	return rates
}
