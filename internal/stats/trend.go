package stats

import (
	"time"

	"github.com/chuthree/brew-guide/internal/model"
)

// TrendPoint is one chart bucket of the selected period. The series
// spans every calendar sub-unit of the period, zero-filled where no
// events fall.
type TrendPoint struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	AmountG float64 `json:"amount_g"`
	Cost    float64 `json:"cost"`
}

// ComputeTrend re-aggregates events per calendar sub-bucket of the
// selected period: months of a year, days of a month. All-time and
// day-granularity selections have no trend series.
func ComputeTrend(records []model.Record, beans []model.Bean, g Granularity, periodKey string, now time.Time) ([]TrendPoint, error) {
	points := make([]TrendPoint, 0)
	if periodKey == "" || g == GranularityDay {
		return points, nil
	}

	buckets, sub, err := subBuckets(g, periodKey)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		return points, nil
	}

	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		key := PeriodKey(sub, b.Start)
		index[key] = i
		points = append(points, TrendPoint{Key: key, Label: bucketLabel(sub, b.Start)})
	}

	for _, ev := range Classify(records, beans) {
		i, ok := index[PeriodKey(sub, ev.Time)]
		if !ok {
			continue
		}
		points[i].AmountG += ev.AmountG
		points[i].Cost += ev.Cost
	}
	return points, nil
}

func bucketLabel(sub Granularity, start time.Time) string {
	if sub == GranularityMonth {
		return start.Format("Jan")
	}
	return start.Format("01-02")
}
