package brewguide

import (
	"database/sql"
	"fmt"

	"github.com/chuthree/brew-guide/internal/service"
	"github.com/spf13/cobra"
)

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Log and browse brews",
}

var (
	brewBean   string
	brewDose   string
	brewMethod string
	brewRating int
	brewNotes  string
	brewDate   string
	brewTime   string
)

var brewLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a brew",
	RunE: func(cmd *cobra.Command, args []string) error {
		brewedAt, err := parseDateTimeOrNow(brewDate, brewTime)
		if err != nil {
			return err
		}
		in := service.LogBrewInput{
			BeanID:   brewBean,
			Dose:     brewDose,
			Method:   brewMethod,
			Rating:   brewRating,
			Notes:    brewNotes,
			BrewedAt: brewedAt,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.LogBrew(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged brew %s\n", id)
			return nil
		})
	},
}

var (
	quickBean   string
	quickAmount float64
	quickDate   string
	quickTime   string
)

var brewQuickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Decrement bean stock without a full brew entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseDateTimeOrNow(quickDate, quickTime)
		if err != nil {
			return err
		}
		in := service.QuickDecrementInput{
			BeanID:  quickBean,
			AmountG: quickAmount,
			At:      at,
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.QuickDecrement(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged quick decrement %s (%s)\n", id, formatGrams(quickAmount))
			return nil
		})
	},
}

var (
	brewListFrom   string
	brewListTo     string
	brewListBean   string
	brewListSource string
	brewListLimit  int
)

var brewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal records",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListRecordsFilter{
			FromDate: brewListFrom,
			ToDate:   brewListTo,
			BeanID:   brewListBean,
			Source:   brewListSource,
			Limit:    brewListLimit,
		}
		return withDB(func(sqldb *sql.DB) error {
			records, err := service.ListRecords(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tDATE\tSOURCE\tBEAN\tDOSE\tAMOUNT\tMETHOD\tRATING")
			for _, r := range records {
				amount := ""
				if r.AmountG != 0 {
					amount = fmt.Sprintf("%.1f", r.AmountG)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\n", r.ID, r.BrewedAt.Local().Format("2006-01-02 15:04"), r.Source, r.BeanName, r.Dose, amount, r.Method, r.Rating)
			}
			return nil
		})
	},
}

var brewDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a journal record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteRecord(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted record %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(brewCmd)
	brewCmd.AddCommand(brewLogCmd, brewQuickCmd, brewListCmd, brewDeleteCmd)

	brewLogCmd.Flags().StringVar(&brewBean, "bean", "", "Bean id to brew from")
	brewLogCmd.Flags().StringVar(&brewDose, "dose", "", "Dose, free form (e.g. \"15g\" or \"two scoops\")")
	brewLogCmd.Flags().StringVar(&brewMethod, "method", "", "Brew method (e.g. v60, espresso)")
	brewLogCmd.Flags().IntVar(&brewRating, "rating", 0, "Rating 1-5")
	brewLogCmd.Flags().StringVar(&brewNotes, "notes", "", "Tasting notes")
	brewLogCmd.Flags().StringVar(&brewDate, "date", "", "Date in YYYY-MM-DD")
	brewLogCmd.Flags().StringVar(&brewTime, "time", "", "Time in HH:MM")

	brewQuickCmd.Flags().StringVar(&quickBean, "bean", "", "Bean id")
	brewQuickCmd.Flags().Float64Var(&quickAmount, "amount", 0, "Grams to deduct")
	brewQuickCmd.Flags().StringVar(&quickDate, "date", "", "Date in YYYY-MM-DD")
	brewQuickCmd.Flags().StringVar(&quickTime, "time", "", "Time in HH:MM")
	_ = brewQuickCmd.MarkFlagRequired("bean")
	_ = brewQuickCmd.MarkFlagRequired("amount")

	brewListCmd.Flags().StringVar(&brewListFrom, "from", "", "Filter from date YYYY-MM-DD")
	brewListCmd.Flags().StringVar(&brewListTo, "to", "", "Filter to date YYYY-MM-DD")
	brewListCmd.Flags().StringVar(&brewListBean, "bean", "", "Filter by bean id")
	brewListCmd.Flags().StringVar(&brewListSource, "source", "", "Filter by source: brew, quick_decrement, capacity_adjustment, roasting")
	brewListCmd.Flags().IntVar(&brewListLimit, "limit", 50, "Result limit")
}
