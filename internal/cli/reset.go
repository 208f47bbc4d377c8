package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/domain"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore settings or wipe stored data",
	Long: `Restore settings to their defaults or wipe all stored data.

Examples:
  invoicebook reset settings   # VAT back to 23%
  invoicebook reset all        # Delete every invoice and restore default settings`,
}

var resetSettingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt(cmd, "This will restore the default settings. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := resetSettings(context.Background()); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Settings restored (VAT %g%%).\n", domain.DefaultVATPercentage)
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL invoices and restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt(cmd, "This will delete ALL data (invoices and settings). Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		ctx := context.Background()
		if err := appInstance.InvoiceService.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear invoices: %w", err)
		}
		if err := resetSettings(ctx); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All data has been deleted.")
		return nil
	},
}

func resetSettings(ctx context.Context) error {
	defaults := domain.DefaultSettings()
	if err := appInstance.SettingsService.UpdateVATPercentage(ctx, defaults.VATPercentage); err != nil {
		return fmt.Errorf("failed to restore settings: %w", err)
	}
	return nil
}

func init() {
	resetCmd.AddCommand(resetSettingsCmd)
	resetCmd.AddCommand(resetAllCmd)

	resetSettingsCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	resetAllCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
