package brewguide

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chuthree/brew-guide/internal/model"
	"github.com/chuthree/brew-guide/internal/service"
	"github.com/chuthree/brew-guide/internal/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Consumption statistics, trends, and forecasts",
}

var (
	statsGranularity string
	statsPeriod      string
	statsJSON        bool
)

var statsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show consumption statistics for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			granularity, periodKey, err := resolveStatsSelection(cmd, sqldb)
			if err != nil {
				return err
			}
			report, err := service.BuildStatsReport(sqldb, granularity, periodKey, time.Now())
			if err != nil {
				return err
			}
			if statsJSON {
				b, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal stats json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			printStatsReport(cmd, report)
			return nil
		})
	},
}

var statsPeriodsGranularity string

var statsPeriodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List periods that have journal data",
	RunE: func(cmd *cobra.Command, args []string) error {
		granularity, err := stats.ParseGranularity(statsPeriodsGranularity)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			records, err := service.LoadAllRecords(sqldb)
			if err != nil {
				return err
			}
			for _, p := range stats.AvailablePeriods(records, granularity) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		})
	},
}

// resolveStatsSelection merges flags with the saved view selection.
// Explicit flags win and are persisted for the next invocation.
func resolveStatsSelection(cmd *cobra.Command, sqldb *sql.DB) (stats.Granularity, string, error) {
	granularityValue := statsGranularity
	periodValue := statsPeriod

	if !cmd.Flags().Changed("granularity") {
		if saved, ok, err := service.GetConfig(sqldb, service.ConfigStatsGranularity); err != nil {
			return "", "", err
		} else if ok {
			granularityValue = saved
		}
	}
	if !cmd.Flags().Changed("period") {
		if saved, ok, err := service.GetConfig(sqldb, service.ConfigStatsPeriod); err != nil {
			return "", "", err
		} else if ok {
			periodValue = saved
		}
	}

	granularity, err := stats.ParseGranularity(granularityValue)
	if err != nil {
		return "", "", err
	}
	// Reject a malformed period key before it can be persisted; a
	// saved typo would otherwise break every flagless invocation.
	if _, err := stats.PeriodInterval(granularity, periodValue, time.Now(), false); err != nil {
		return "", "", err
	}

	if cmd.Flags().Changed("granularity") {
		if err := service.SetConfig(sqldb, service.ConfigStatsGranularity, string(granularity)); err != nil {
			return "", "", err
		}
	}
	if cmd.Flags().Changed("period") {
		if err := service.SetConfig(sqldb, service.ConfigStatsPeriod, periodValue); err != nil {
			return "", "", err
		}
	}
	return granularity, periodValue, nil
}

func printStatsReport(cmd *cobra.Command, report *service.StatsReport) {
	out := cmd.OutOrStdout()
	agg := report.Aggregate

	period := agg.Period
	if period == "" {
		period = "all time"
	}
	fmt.Fprintf(out, "Period: %s (%s)\n", period, agg.Granularity)
	if agg.Estimated {
		fmt.Fprintln(out, "Estimated from bag capacity deltas; log brews for exact numbers")
	}
	fmt.Fprintf(out, "Total: %s", formatGrams(agg.TotalAmount))
	if agg.TotalCost > 0 {
		fmt.Fprintf(out, "  Cost: %.2f", agg.TotalCost)
	}
	fmt.Fprintf(out, "  Events: %d\n", agg.EventCount)
	fmt.Fprintf(out, "Daily average: %.1fg over %d day(s)", agg.AvgAmount, agg.ActualDays)
	if agg.AvgCost > 0 {
		fmt.Fprintf(out, " (%.2f/day)", agg.AvgCost)
	}
	fmt.Fprintln(out)

	if len(agg.ByCategory) > 0 {
		fmt.Fprintln(out, "\nBy category:")
		for _, c := range orderedCategories(agg) {
			stat := agg.ByCategory[c]
			fmt.Fprintf(out, "  %-10s %8s  %5.1f%%", c, formatGrams(stat.AmountG), stat.Percent)
			if stat.Cost > 0 {
				fmt.Fprintf(out, "  %.2f", stat.Cost)
			}
			fmt.Fprintln(out)
		}
	}

	if len(report.Trend) > 0 {
		fmt.Fprintln(out, "\nTrend:")
		maxAmount := 0.0
		for _, p := range report.Trend {
			if p.AmountG > maxAmount {
				maxAmount = p.AmountG
			}
		}
		for _, p := range report.Trend {
			fmt.Fprintf(out, "  %-6s %8s %s\n", p.Label, formatGrams(p.AmountG), horizontalBar(p.AmountG, maxAmount, 24))
		}
	}

	if report.Forecast != nil && len(report.Forecast.Categories) > 0 {
		f := report.Forecast
		fmt.Fprintln(out, "\nForecast:")
		for _, c := range f.Categories {
			fmt.Fprintf(out, "  %-10s %8s left", c.Category, formatGrams(c.RemainingG))
			if c.RemainingValue > 0 {
				fmt.Fprintf(out, " (%.2f)", c.RemainingValue)
			}
			if c.DaysUntilEmpty > 0 {
				fmt.Fprintf(out, ", ~%d day(s) until empty", c.DaysUntilEmpty)
			} else {
				fmt.Fprint(out, ", no usage rate yet")
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "  %-10s %8s left", "total", formatGrams(f.TotalRemainingG))
		if f.TotalDaysUntilEmpty > 0 {
			fmt.Fprintf(out, ", ~%d day(s) until empty", f.TotalDaysUntilEmpty)
		}
		fmt.Fprintln(out)
	}

	if len(report.Periods) > 0 {
		fmt.Fprintf(out, "\nPeriods with data: %s\n", strings.Join(report.Periods, ", "))
	}
}

// orderedCategories returns the aggregate's categories in the fixed
// display order.
func orderedCategories(agg stats.Aggregate) []model.Category {
	keys := make([]model.Category, 0, len(agg.ByCategory))
	for _, c := range model.Categories {
		if _, ok := agg.ByCategory[c]; ok {
			keys = append(keys, c)
		}
	}
	return keys
}

func horizontalBar(value, max float64, width int) string {
	if width <= 0 || max <= 0 || value <= 0 {
		return ""
	}
	bars := int(math.Round(value / max * float64(width)))
	if bars == 0 {
		bars = 1
	}
	return strings.Repeat("#", bars)
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsShowCmd, statsPeriodsCmd)

	statsShowCmd.Flags().StringVar(&statsGranularity, "granularity", "month", "Bucket granularity: year, month, or day")
	statsShowCmd.Flags().StringVar(&statsPeriod, "period", "", "Period key (2026, 2026-06, or 2026-06-15; empty means all time)")
	statsShowCmd.Flags().BoolVar(&statsJSON, "json", false, "Emit the full report as JSON")

	statsPeriodsCmd.Flags().StringVar(&statsPeriodsGranularity, "granularity", "month", "Bucket granularity: year, month, or day")
}
