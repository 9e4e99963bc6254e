package service

import (
	"database/sql"
	"time"

	"github.com/chuthree/brew-guide/internal/stats"
)

// StatsReport bundles everything the stats view renders for one
// granularity/period selection.
type StatsReport struct {
	Aggregate stats.Aggregate    `json:"aggregate"`
	Trend     []stats.TrendPoint `json:"trend"`
	// Forecast is only present on the all-time view; a historical
	// period has no forward-looking inventory to forecast.
	Forecast *stats.Forecast `json:"forecast,omitempty"`
	Periods  []string        `json:"periods"`
}

// BuildStatsReport loads immutable snapshots of the journal and the
// inventory and runs the statistics engine over them. The engine
// itself is pure; this is the single place deciding when it runs.
func BuildStatsReport(db *sql.DB, g stats.Granularity, periodKey string, now time.Time) (*StatsReport, error) {
	records, err := LoadAllRecords(db)
	if err != nil {
		return nil, err
	}
	beans, err := LoadAllBeans(db)
	if err != nil {
		return nil, err
	}

	agg, err := stats.ComputeAggregate(records, beans, g, periodKey, now)
	if err != nil {
		return nil, err
	}
	trend, err := stats.ComputeTrend(records, beans, g, periodKey, now)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{
		Aggregate: agg,
		Trend:     trend,
		Periods:   stats.AvailablePeriods(records, g),
	}

	if periodKey == "" {
		// Forecasts always run against the current, ongoing all-time
		// rate, never a historical period's.
		fc := stats.ComputeForecast(beans, stats.DailyRates(agg))
		report.Forecast = &fc
	}
	return report, nil
}
