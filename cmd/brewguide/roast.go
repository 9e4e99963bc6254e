package brewguide

import (
	"database/sql"
	"fmt"

	"github.com/chuthree/brew-guide/internal/service"
	"github.com/spf13/cobra"
)

var (
	roastGreenBean string
	roastGreenUsed float64
	roastOutput    float64
	roastName      string
	roastCategory  string
	roastDate      string
	roastTime      string
)

var roastCmd = &cobra.Command{
	Use:   "roast",
	Short: "Log a roasting session",
	Long:  "roast deducts green stock and creates a roasted bag from the output, priced at the green beans' proportional cost.",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseDateTimeOrNow(roastDate, roastTime)
		if err != nil {
			return err
		}
		in := service.LogRoastInput{
			GreenBeanID: roastGreenBean,
			GreenUsedG:  roastGreenUsed,
			RoastedG:    roastOutput,
			Name:        roastName,
			Category:    roastCategory,
			At:          at,
		}
		return withDB(func(sqldb *sql.DB) error {
			recordID, roastedID, err := service.LogRoast(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged roast %s\n", recordID)
			fmt.Fprintf(cmd.OutOrStdout(), "Created roasted bag %s (%s)\n", roastedID, formatGrams(roastOutput))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(roastCmd)

	roastCmd.Flags().StringVar(&roastGreenBean, "green", "", "Green bean id")
	roastCmd.Flags().Float64Var(&roastGreenUsed, "used", 0, "Green grams used")
	roastCmd.Flags().Float64Var(&roastOutput, "out", 0, "Roasted grams produced")
	roastCmd.Flags().StringVar(&roastName, "name", "", "Name for the roasted bag (defaults to the green bean's)")
	roastCmd.Flags().StringVar(&roastCategory, "category", "", "Category for the roasted bag (defaults to the green bean's)")
	roastCmd.Flags().StringVar(&roastDate, "date", "", "Date in YYYY-MM-DD")
	roastCmd.Flags().StringVar(&roastTime, "time", "", "Time in HH:MM")
	_ = roastCmd.MarkFlagRequired("green")
	_ = roastCmd.MarkFlagRequired("used")
	_ = roastCmd.MarkFlagRequired("out")
}
