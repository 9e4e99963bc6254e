package brewguide

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/chuthree/brew-guide/internal/service"
	"github.com/chuthree/brew-guide/internal/stats"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage brewguide local configuration",
}

var (
	cfgStatsGranularity string
	cfgStatsPeriod      string
)

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			updates := 0
			if cmd.Flags().Changed("stats-granularity") {
				granularity, err := stats.ParseGranularity(cfgStatsGranularity)
				if err != nil {
					return err
				}
				if err := service.SetConfig(sqldb, service.ConfigStatsGranularity, string(granularity)); err != nil {
					return err
				}
				updates++
			}
			if cmd.Flags().Changed("stats-period") {
				if err := service.SetConfig(sqldb, service.ConfigStatsPeriod, cfgStatsPeriod); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			values, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, values[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd)

	configSetCmd.Flags().StringVar(&cfgStatsGranularity, "stats-granularity", "", "Default stats granularity: year, month, or day")
	configSetCmd.Flags().StringVar(&cfgStatsPeriod, "stats-period", "", "Default stats period key")
}
