package stats

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the calendar unit used to bucket statistics.
type Granularity string

const (
	GranularityYear  Granularity = "year"
	GranularityMonth Granularity = "month"
	GranularityDay   Granularity = "day"
)

func ParseGranularity(value string) (Granularity, error) {
	switch Granularity(strings.ToLower(strings.TrimSpace(value))) {
	case GranularityYear:
		return GranularityYear, nil
	case GranularityMonth:
		return GranularityMonth, nil
	case GranularityDay:
		return GranularityDay, nil
	}
	return "", fmt.Errorf("invalid granularity %q (use year|month|day)", value)
}

// keyLayout returns the time layout of a period key for the granularity.
func (g Granularity) keyLayout() string {
	switch g {
	case GranularityYear:
		return "2006"
	case GranularityMonth:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}

// PeriodKey formats the period key the timestamp falls into.
func PeriodKey(g Granularity, t time.Time) string {
	return t.In(time.Local).Format(g.keyLayout())
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// distantFuture stands in for the open end of the all-time interval;
// the effective range resolver clamps it back to now.
var distantFuture = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// PeriodInterval resolves a granularity and period key to the nominal
// interval the statistics must cover. An empty key means all time.
// When clampToNow is set an end lying in the future is capped at now;
// trend boundaries use the unclamped interval.
func PeriodInterval(g Granularity, periodKey string, now time.Time, clampToNow bool) (Interval, error) {
	periodKey = strings.TrimSpace(periodKey)
	if periodKey == "" {
		iv := Interval{Start: time.UnixMilli(0), End: distantFuture}
		if clampToNow {
			iv.End = now
		}
		return iv, nil
	}

	start, err := time.ParseInLocation(g.keyLayout(), periodKey, time.Local)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid %s period %q (expected %s)", g, periodKey, g.keyLayout())
	}

	var end time.Time
	switch g {
	case GranularityYear:
		end = start.AddDate(1, 0, 0)
	case GranularityMonth:
		end = start.AddDate(0, 1, 0)
	default:
		end = start.AddDate(0, 0, 1)
	}
	if clampToNow && end.After(now) {
		end = now
	}
	return Interval{Start: start, End: end}, nil
}

// subBuckets enumerates the ordered calendar sub-units of a period: the
// months of a year or the days of a month. Day periods have none.
func subBuckets(g Granularity, periodKey string) ([]Interval, Granularity, error) {
	iv, err := PeriodInterval(g, periodKey, time.Time{}, false)
	if err != nil {
		return nil, "", err
	}

	var sub Granularity
	var step func(time.Time) time.Time
	switch g {
	case GranularityYear:
		sub = GranularityMonth
		step = func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }
	case GranularityMonth:
		sub = GranularityDay
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	default:
		return nil, "", nil
	}

	buckets := make([]Interval, 0, 31)
	for cur := iv.Start; cur.Before(iv.End); cur = step(cur) {
		buckets = append(buckets, Interval{Start: cur, End: step(cur)})
	}
	return buckets, sub, nil
}

func beginningOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// daysCovered counts the distinct calendar days intersecting the
// half-open range [start, end), minimum 1. A midnight end boundary
// belongs to the day before it.
func daysCovered(start, end time.Time) int {
	if !end.After(start) {
		return 1
	}
	return daysBetweenInclusive(start, end.Add(-time.Nanosecond))
}

// daysBetweenInclusive counts calendar days between two instants,
// floored to day boundaries and inclusive of both endpoints: a range
// within a single day counts as 1.
func daysBetweenInclusive(start, end time.Time) int {
	a := beginningOfDay(start)
	b := beginningOfDay(end)
	if b.Before(a) {
		return 1
	}
	// Rounding absorbs DST-shortened and -lengthened days.
	days := int(b.Sub(a).Hours()/24+0.5) + 1
	if days < 1 {
		days = 1
	}
	return days
}
