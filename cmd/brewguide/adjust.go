package brewguide

import (
	"database/sql"
	"fmt"

	"github.com/chuthree/brew-guide/internal/service"
	"github.com/spf13/cobra"
)

var (
	adjustBean      string
	adjustRemaining float64
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Correct a bean's remaining stock",
	Long:  "adjust sets a bean's remaining grams after weighing the bag. The correction is journaled but never counts as consumption.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.AdjustRemainingInput{
			BeanID:        adjustBean,
			NewRemainingG: adjustRemaining,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.AdjustRemaining(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Adjusted bean %s to %s (record %s)\n", adjustBean, formatGrams(adjustRemaining), id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(adjustCmd)

	adjustCmd.Flags().StringVar(&adjustBean, "bean", "", "Bean id")
	adjustCmd.Flags().Float64Var(&adjustRemaining, "remaining", 0, "Measured remaining grams")
	_ = adjustCmd.MarkFlagRequired("bean")
	_ = adjustCmd.MarkFlagRequired("remaining")
}
