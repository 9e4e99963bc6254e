package brewguide

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/chuthree/brew-guide/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportOut string
	importIn  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export beans and journal to JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(exportOut) == "" {
			return fmt.Errorf("--out is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			data, err := service.ExportDataSnapshot(sqldb)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal export json: %w", err)
			}
			if err := os.WriteFile(exportOut, b, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bean(s) and %d record(s) to %s\n", len(data.Beans), len(data.Records), exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import beans and journal from a JSON export",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		return withDB(func(sqldb *sql.DB) error {
			raw, err := os.ReadFile(importIn)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var payload service.ExportData
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("parse import json: %w", err)
			}
			report, err := service.ImportDataSnapshot(sqldb, &payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bean(s) (%d skipped), %d record(s) (%d skipped)\n", report.BeansInserted, report.BeansSkipped, report.RecordsInserted, report.RecordsSkipped)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	_ = exportCmd.MarkFlagRequired("out")
	_ = importCmd.MarkFlagRequired("in")
}
