package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/service"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export, import, or clear invoice data",
	Long: `Export, import, or clear invoice data.

Examples:
  invoicebook data export                 # Write invoice-data-YYYY-MM-DD.json to the export dir
  invoicebook data export -o -            # Write to stdout
  invoicebook data import backup.json     # Append invoices from a previous export
  invoicebook data clear                  # Delete ALL invoices`,
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all invoices as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := appInstance.InvoiceService.Export()
		if err != nil {
			return fmt.Errorf("failed to export data: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "-" {
			_, err := cmd.OutOrStdout().Write(append(doc, '\n'))
			return err
		}
		if output == "" {
			output = filepath.Join(appInstance.Config.Invoice.ExportDir, service.ExportFileName(time.Now()))
		}

		if err := os.MkdirAll(filepath.Dir(output), 0700); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
		if err := os.WriteFile(output, doc, 0600); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Data exported successfully! (%s)\n", output)
		return nil
	},
}

var dataImportCmd = &cobra.Command{
	Use:   "import [file|-]",
	Short: "Append invoices from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			doc []byte
			err error
		)
		if args[0] == "-" {
			doc, err = io.ReadAll(cmd.InOrStdin())
		} else {
			doc, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		n, err := appInstance.InvoiceService.Import(context.Background(), doc)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No valid invoices found in the file.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d invoices successfully!\n", n)
		return nil
	},
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete ALL invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt(cmd, "Are you sure you want to delete ALL invoice data? This cannot be undone!") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.Clear(context.Background()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All data has been cleared.")
		return nil
	},
}

func init() {
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataClearCmd)

	dataExportCmd.Flags().StringP("output", "o", "", "Output file, or - for stdout (defaults to the export dir)")
	dataClearCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
