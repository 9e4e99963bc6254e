package stats_test

import (
	"testing"
	"time"

	"github.com/chuthree/brew-guide/internal/stats"
)

func TestPeriodIntervalMonth(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.Local)
	iv, err := stats.PeriodInterval(stats.GranularityMonth, "2024-06", now, false)
	if err != nil {
		t.Fatalf("period interval: %v", err)
	}
	wantStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local)
	if !iv.Start.Equal(wantStart) || !iv.End.Equal(wantEnd) {
		t.Fatalf("expected [%v, %v), got [%v, %v)", wantStart, wantEnd, iv.Start, iv.End)
	}
	if !iv.Contains(wantStart) {
		t.Fatalf("interval should contain its start")
	}
	if iv.Contains(wantEnd) {
		t.Fatalf("interval end is exclusive")
	}
}

func TestPeriodIntervalYearAndDay(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)

	iv, err := stats.PeriodInterval(stats.GranularityYear, "2024", now, false)
	if err != nil {
		t.Fatalf("year interval: %v", err)
	}
	if !iv.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected year start %v", iv.Start)
	}
	if !iv.End.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected year end %v", iv.End)
	}

	iv, err = stats.PeriodInterval(stats.GranularityDay, "2024-02-29", now, false)
	if err != nil {
		t.Fatalf("day interval: %v", err)
	}
	if !iv.End.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("unexpected leap-day end %v", iv.End)
	}
}

func TestPeriodIntervalClampsFutureEndToNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 3, 10, 0, 0, 0, time.Local)
	iv, err := stats.PeriodInterval(stats.GranularityYear, "2025", now, true)
	if err != nil {
		t.Fatalf("period interval: %v", err)
	}
	if !iv.End.Equal(now) {
		t.Fatalf("expected end clamped to now, got %v", iv.End)
	}
}

func TestPeriodIntervalAllTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 3, 10, 0, 0, 0, time.Local)
	iv, err := stats.PeriodInterval(stats.GranularityMonth, "", now, false)
	if err != nil {
		t.Fatalf("period interval: %v", err)
	}
	if !iv.Contains(time.Date(1980, 5, 1, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("all-time interval should contain any past instant")
	}
	if !iv.Contains(now.AddDate(10, 0, 0)) {
		t.Fatalf("unclamped all-time interval should remain open-ended")
	}
}

func TestPeriodIntervalRejectsMalformedKeys(t *testing.T) {
	t.Parallel()

	now := time.Now()
	cases := []struct {
		g   stats.Granularity
		key string
	}{
		{stats.GranularityYear, "24"},
		{stats.GranularityMonth, "2024-13"},
		{stats.GranularityMonth, "2024/06"},
		{stats.GranularityDay, "2024-06-31"},
	}
	for _, c := range cases {
		if _, err := stats.PeriodInterval(c.g, c.key, now, false); err == nil {
			t.Fatalf("expected error for %s key %q", c.g, c.key)
		}
	}
}

func TestParseGranularity(t *testing.T) {
	t.Parallel()

	if g, err := stats.ParseGranularity(" Month "); err != nil || g != stats.GranularityMonth {
		t.Fatalf("expected month, got %q (%v)", g, err)
	}
	if _, err := stats.ParseGranularity("week"); err == nil {
		t.Fatalf("expected error for unsupported granularity")
	}
}

func TestPeriodKeyFormats(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 6, 3, 9, 30, 0, 0, time.Local)
	if key := stats.PeriodKey(stats.GranularityYear, at); key != "2024" {
		t.Fatalf("year key: got %q", key)
	}
	if key := stats.PeriodKey(stats.GranularityMonth, at); key != "2024-06" {
		t.Fatalf("month key: got %q", key)
	}
	if key := stats.PeriodKey(stats.GranularityDay, at); key != "2024-06-03" {
		t.Fatalf("day key: got %q", key)
	}
}
