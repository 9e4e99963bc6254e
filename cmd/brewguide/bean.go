package brewguide

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chuthree/brew-guide/internal/service"
	"github.com/chuthree/brew-guide/internal/stats"
	"github.com/spf13/cobra"
)

var beanCmd = &cobra.Command{
	Use:   "bean",
	Short: "Manage the coffee bean inventory",
}

var (
	beanName      string
	beanCategory  string
	beanState     string
	beanCapacity  float64
	beanRemaining float64
	beanPrice     float64
	beanRoastDate string
	beanStartDay  int
	beanEndDay    int
	beanFrozen    bool
	beanNotes     string
)

var beanAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a bag of beans",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.CreateBeanInput{
			Name:       beanName,
			Category:   beanCategory,
			State:      beanState,
			CapacityG:  beanCapacity,
			RemainingG: beanRemaining,
			Price:      beanPrice,
			RoastDate:  beanRoastDate,
			StartDay:   beanStartDay,
			EndDay:     beanEndDay,
			IsFrozen:   beanFrozen,
			Notes:      beanNotes,
		}
		if !cmd.Flags().Changed("remaining") {
			in.RemainingG = -1
		}
		return withDB(func(sqldb *sql.DB) error {
			id, err := service.CreateBean(sqldb, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added bean %s\n", id)
			return nil
		})
	},
}

var (
	beanListCategory string
	beanListState    string
	beanListInStock  bool
)

var beanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List beans",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := service.ListBeansFilter{
			Category: beanListCategory,
			State:    beanListState,
			InStock:  beanListInStock,
		}
		return withDB(func(sqldb *sql.DB) error {
			beans, err := service.ListBeans(sqldb, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME\tCATEGORY\tSTATE\tREMAINING\tCAPACITY\tROASTED")
			for _, b := range beans {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Category, b.State, formatGrams(b.RemainingG), formatGrams(b.CapacityG), b.RoastDate)
			}
			return nil
		})
	},
}

var beanShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single bean",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			b, err := service.GetBean(sqldb, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID: %s\n", b.ID)
			fmt.Fprintf(out, "Name: %s\n", b.Name)
			fmt.Fprintf(out, "Category: %s\n", b.Category)
			fmt.Fprintf(out, "State: %s\n", b.State)
			fmt.Fprintf(out, "Remaining: %s of %s\n", formatGrams(b.RemainingG), formatGrams(b.CapacityG))
			fmt.Fprintf(out, "Price: %.2f\n", b.Price)
			if b.RoastDate != "" {
				fmt.Fprintf(out, "Roast date: %s\n", b.RoastDate)
				fresh := stats.EvaluateFreshness(*b, time.Now())
				fmt.Fprintf(out, "Freshness: %s (day %d, window %d-%d)\n", fresh.State, fresh.DaysSinceRoast, fresh.StartDay, fresh.EndDay)
			}
			if b.IsFrozen {
				fmt.Fprintln(out, "Frozen: yes")
			}
			if b.Notes != "" {
				fmt.Fprintf(out, "Notes: %s\n", b.Notes)
			}
			fmt.Fprintf(out, "Added: %s\n", b.CreatedAt.Local().Format("2006-01-02 15:04"))
			return nil
		})
	},
}

var (
	beanUpdateName      string
	beanUpdatePrice     float64
	beanUpdateRoastDate string
	beanUpdateStartDay  int
	beanUpdateEndDay    int
	beanUpdateFrozen    bool
	beanUpdateNotes     string
)

var beanUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a bean",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.UpdateBeanInput{ID: args[0]}
		if cmd.Flags().Changed("name") {
			in.Name = &beanUpdateName
		}
		if cmd.Flags().Changed("price") {
			in.Price = &beanUpdatePrice
		}
		if cmd.Flags().Changed("roast-date") {
			in.RoastDate = &beanUpdateRoastDate
		}
		if cmd.Flags().Changed("start-day") {
			in.StartDay = &beanUpdateStartDay
		}
		if cmd.Flags().Changed("end-day") {
			in.EndDay = &beanUpdateEndDay
		}
		if cmd.Flags().Changed("frozen") {
			in.IsFrozen = &beanUpdateFrozen
		}
		if cmd.Flags().Changed("notes") {
			in.Notes = &beanUpdateNotes
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.UpdateBean(sqldb, in); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated bean %s\n", args[0])
			return nil
		})
	},
}

var beanRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a bean",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.DeleteBean(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed bean %s\n", args[0])
			return nil
		})
	},
}

var beanFreshnessCmd = &cobra.Command{
	Use:   "freshness",
	Short: "Show flavor-window status of beans in stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			beans, err := service.LoadAllBeans(sqldb)
			if err != nil {
				return err
			}
			fresh := stats.EvaluateBeans(beans, time.Now())
			if len(fresh) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No beans in stock")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "NAME\tSTATE\tDAY\tWINDOW\tPROGRESS\tREMAINING")
			for _, f := range fresh {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%d-%d\t%.0f%%\t%s\n", f.Bean.Name, f.State, f.DaysSinceRoast, f.StartDay, f.EndDay, f.ProgressPercent, formatGrams(f.Bean.RemainingG))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(beanCmd)
	beanCmd.AddCommand(beanAddCmd, beanListCmd, beanShowCmd, beanUpdateCmd, beanRemoveCmd, beanFreshnessCmd)

	beanAddCmd.Flags().StringVar(&beanName, "name", "", "Bean name")
	beanAddCmd.Flags().StringVar(&beanCategory, "category", "", "Category: espresso, filter, omni, or other")
	beanAddCmd.Flags().StringVar(&beanState, "state", "roasted", "Bean state: green or roasted")
	beanAddCmd.Flags().Float64Var(&beanCapacity, "capacity", 0, "Bag capacity in grams")
	beanAddCmd.Flags().Float64Var(&beanRemaining, "remaining", 0, "Remaining grams (defaults to capacity)")
	beanAddCmd.Flags().Float64Var(&beanPrice, "price", 0, "Price paid for the whole bag")
	beanAddCmd.Flags().StringVar(&beanRoastDate, "roast-date", "", "Roast date YYYY-MM-DD")
	beanAddCmd.Flags().IntVar(&beanStartDay, "start-day", 0, "First day of the flavor window")
	beanAddCmd.Flags().IntVar(&beanEndDay, "end-day", 0, "Last day of the flavor window")
	beanAddCmd.Flags().BoolVar(&beanFrozen, "frozen", false, "Bag is stored frozen")
	beanAddCmd.Flags().StringVar(&beanNotes, "notes", "", "Optional notes")
	_ = beanAddCmd.MarkFlagRequired("name")
	_ = beanAddCmd.MarkFlagRequired("category")
	_ = beanAddCmd.MarkFlagRequired("capacity")

	beanListCmd.Flags().StringVar(&beanListCategory, "category", "", "Filter by category")
	beanListCmd.Flags().StringVar(&beanListState, "state", "", "Filter by state")
	beanListCmd.Flags().BoolVar(&beanListInStock, "in-stock", false, "Only beans with remaining grams")

	beanUpdateCmd.Flags().StringVar(&beanUpdateName, "name", "", "Bean name")
	beanUpdateCmd.Flags().Float64Var(&beanUpdatePrice, "price", 0, "Price paid for the whole bag")
	beanUpdateCmd.Flags().StringVar(&beanUpdateRoastDate, "roast-date", "", "Roast date YYYY-MM-DD")
	beanUpdateCmd.Flags().IntVar(&beanUpdateStartDay, "start-day", 0, "First day of the flavor window")
	beanUpdateCmd.Flags().IntVar(&beanUpdateEndDay, "end-day", 0, "Last day of the flavor window")
	beanUpdateCmd.Flags().BoolVar(&beanUpdateFrozen, "frozen", false, "Bag is stored frozen")
	beanUpdateCmd.Flags().StringVar(&beanUpdateNotes, "notes", "", "Optional notes")
}
