package brewguide

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "brewguide",
	Short: "brewguide tracks coffee beans and brews from your terminal",
	Long:  "brewguide is a local-first coffee inventory and brewing journal CLI with consumption statistics, trend charts, and stock depletion forecasts.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
