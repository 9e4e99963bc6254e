package stats_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/chuthree/brew-guide/internal/model"
	"github.com/chuthree/brew-guide/internal/stats"
)

func TestComputeAggregateSingleBrew(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 20, 0, 0, 0, 0, time.Local)
	beans := []model.Bean{roastedBean("b1", model.CategoryFilter, 500, 200, 50, created)}
	records := []model.Record{
		brewRecord("b1", "15g", time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)),
	}
	now := time.Date(2024, 7, 2, 12, 0, 0, 0, time.Local)

	agg, err := stats.ComputeAggregate(records, beans, stats.GranularityMonth, "2024-06", now)
	if err != nil {
		t.Fatalf("compute aggregate: %v", err)
	}
	if !almostEqual(agg.TotalAmount, 15) {
		t.Fatalf("expected total 15g, got %v", agg.TotalAmount)
	}
	filter, ok := agg.ByCategory[model.CategoryFilter]
	if !ok {
		t.Fatalf("expected filter category in breakdown")
	}
	if !almostEqual(filter.Percent, 100) {
		t.Fatalf("expected filter at 100%%, got %v", filter.Percent)
	}
	// June 10 through June 30: the month ended before now, so the
	// effective end is the nominal end.
	if agg.ActualDays != 21 {
		t.Fatalf("expected 21 actual days, got %d", agg.ActualDays)
	}
	if !almostEqual(agg.AvgAmount, 15.0/21) {
		t.Fatalf("unexpected daily average %v", agg.AvgAmount)
	}
}

func TestComputeAggregateEffectiveEndClampedToNow(t *testing.T) {
	t.Parallel()

	// Partway through 2025 with events only in early January: averages
	// must span 3 days, not 365.
	now := time.Date(2025, 1, 3, 15, 0, 0, 0, time.Local)
	records := []model.Record{
		brewRecord("", "20g", time.Date(2025, 1, 1, 8, 0, 0, 0, time.Local)),
		brewRecord("", "20g", time.Date(2025, 1, 2, 8, 0, 0, 0, time.Local)),
	}

	agg, err := stats.ComputeAggregate(records, nil, stats.GranularityYear, "2025", now)
	if err != nil {
		t.Fatalf("compute aggregate: %v", err)
	}
	if agg.ActualDays != 3 {
		t.Fatalf("expected 3 actual days, got %d", agg.ActualDays)
	}
	if agg.EffectiveEnd == nil || !agg.EffectiveEnd.Equal(now) {
		t.Fatalf("expected effective end at now, got %v", agg.EffectiveEnd)
	}
	if !almostEqual(agg.AvgAmount, 40.0/3) {
		t.Fatalf("unexpected daily average %v", agg.AvgAmount)
	}
}

func TestComputeAggregateFallbackFromCapacityDeltas(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	beans := []model.Bean{
		roastedBean("b1", model.CategoryEspresso, 1000, 200, 100, created),
		roastedBean("b2", model.CategoryEspresso, 500, 500, 60, created.AddDate(0, 0, 5)),
	}
	now := time.Date(2024, 6, 30, 18, 0, 0, 0, time.Local)

	agg, err := stats.ComputeAggregate(nil, beans, stats.GranularityMonth, "", now)
	if err != nil {
		t.Fatalf("compute aggregate: %v", err)
	}
	if !agg.Estimated {
		t.Fatalf("expected fallback estimation to trigger")
	}
	if !almostEqual(agg.TotalAmount, 800) {
		t.Fatalf("expected 800g consumed, got %v", agg.TotalAmount)
	}
	// 800g of a 1000g bag at 100 = 80.
	if !almostEqual(agg.TotalCost, 80) {
		t.Fatalf("expected cost 80, got %v", agg.TotalCost)
	}
	// Anchored at the earliest bean's creation: June 1-30 inclusive.
	if agg.ActualDays != 30 {
		t.Fatalf("expected 30 actual days, got %d", agg.ActualDays)
	}
}

func TestComputeAggregateFallbackRequiresStrictlyZeroEvents(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	beans := []model.Bean{roastedBean("b1", model.CategoryEspresso, 1000, 100, 100, created)}
	records := []model.Record{
		brewRecord("b1", "18g", time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)),
	}
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.Local)

	agg, err := stats.ComputeAggregate(records, beans, stats.GranularityMonth, "", now)
	if err != nil {
		t.Fatalf("compute aggregate: %v", err)
	}
	if agg.Estimated {
		t.Fatalf("a single event must disable capacity estimation")
	}
	if !almostEqual(agg.TotalAmount, 18) {
		t.Fatalf("expected 18g from the one event, got %v", agg.TotalAmount)
	}
}

func TestComputeAggregateFallbackSkippedForConcretePeriod(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	beans := []model.Bean{roastedBean("b1", model.CategoryEspresso, 1000, 100, 100, created)}
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.Local)

	agg, err := stats.ComputeAggregate(nil, beans, stats.GranularityMonth, "2024-05", now)
	if err != nil {
		t.Fatalf("compute aggregate: %v", err)
	}
	if agg.Estimated || agg.TotalAmount != 0 {
		t.Fatalf("historical periods must not estimate from capacity, got %+v", agg)
	}
	if agg.ActualDays != 1 {
		t.Fatalf("empty periods fall back to 1 day, got %d", agg.ActualDays)
	}
}

func TestComputeAggregateUnresolvedCategoryCountsInTotalsOnly(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	beans := []model.Bean{roastedBean("b1", model.CategoryOmni, 500, 300, 40, created)}
	at := time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)
	records := []model.Record{
		brewRecord("b1", "15g", at),
		brewRecord("deleted-bean", "10g", at.Add(time.Hour)),
	}
	now := time.Date(2024, 7, 2, 0, 0, 0, 0, time.Local)

	agg, err := stats.ComputeAggregate(records, beans, stats.GranularityMonth, "2024-06", now)
	if err != nil {
		t.Fatalf("compute aggregate: %v", err)
	}
	if !almostEqual(agg.TotalAmount, 25) {
		t.Fatalf("expected total 25g, got %v", agg.TotalAmount)
	}
	var categorySum, percentSum float64
	for _, stat := range agg.ByCategory {
		categorySum += stat.AmountG
		percentSum += stat.Percent
	}
	if categorySum > agg.TotalAmount {
		t.Fatalf("category sum %v exceeds total %v", categorySum, agg.TotalAmount)
	}
	if percentSum > 100+1e-9 {
		t.Fatalf("percentages exceed 100: %v", percentSum)
	}
}

func TestComputeAggregateEmptyInputsAreZeroSafe(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.Local)
	for _, period := range []string{"", "2024-06"} {
		agg, err := stats.ComputeAggregate(nil, nil, stats.GranularityMonth, period, now)
		if err != nil {
			t.Fatalf("compute aggregate (%q): %v", period, err)
		}
		if agg.ActualDays != 1 {
			t.Fatalf("expected actualDays 1, got %d", agg.ActualDays)
		}
		for _, v := range []float64{agg.TotalAmount, agg.TotalCost, agg.AvgAmount, agg.AvgCost} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("non-finite output for period %q: %+v", period, agg)
			}
		}
	}
}

func TestComputeAggregateIdempotent(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	beans := []model.Bean{roastedBean("b1", model.CategoryFilter, 500, 250, 45, created)}
	records := []model.Record{
		brewRecord("b1", "15g", time.Date(2024, 6, 3, 8, 0, 0, 0, time.Local)),
		quickRecord("b1", 30, time.Date(2024, 6, 5, 9, 0, 0, 0, time.Local)),
	}
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local)

	first, err := stats.ComputeAggregate(records, beans, stats.GranularityMonth, "2024-06", now)
	if err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	second, err := stats.ComputeAggregate(records, beans, stats.GranularityMonth, "2024-06", now)
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aggregate is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestComputeAggregateActualDaysMonotonicAsIntervalWidens(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		brewRecord("", "15g", time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)),
		brewRecord("", "15g", time.Date(2024, 6, 20, 8, 0, 0, 0, time.Local)),
	}
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.Local)

	day, err := stats.ComputeAggregate(records, nil, stats.GranularityDay, "2024-06-10", now)
	if err != nil {
		t.Fatalf("day aggregate: %v", err)
	}
	month, err := stats.ComputeAggregate(records, nil, stats.GranularityMonth, "2024-06", now)
	if err != nil {
		t.Fatalf("month aggregate: %v", err)
	}
	year, err := stats.ComputeAggregate(records, nil, stats.GranularityYear, "2024", now)
	if err != nil {
		t.Fatalf("year aggregate: %v", err)
	}
	if day.ActualDays > month.ActualDays || month.ActualDays > year.ActualDays {
		t.Fatalf("actual days must be non-decreasing: day=%d month=%d year=%d",
			day.ActualDays, month.ActualDays, year.ActualDays)
	}
}

func TestDailyRates(t *testing.T) {
	t.Parallel()

	agg := stats.Aggregate{
		ByCategory: map[model.Category]stats.CategoryStat{
			model.CategoryEspresso: {AmountG: 90},
		},
		ActualDays: 30,
	}
	rates := stats.DailyRates(agg)
	if !almostEqual(rates[model.CategoryEspresso], 3) {
		t.Fatalf("expected 3 g/day, got %v", rates[model.CategoryEspresso])
	}
}
