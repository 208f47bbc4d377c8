package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/config"
	"github.com/andy/invoicebook/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfg := appInstance.Config

		fmt.Fprintf(out, "VAT percentage:     %g%%\n", appInstance.SettingsService.Get().VATPercentage)
		fmt.Fprintf(out, "Storage backend:    %s\n", cfg.Storage.Backend)
		if cfg.Storage.Backend != config.BackendMemory {
			fmt.Fprintf(out, "Database:           %s\n", cfg.Storage.Path)
		}
		fmt.Fprintf(out, "Storage quota:      %d bytes\n", cfg.Storage.QuotaBytes)
		fmt.Fprintf(out, "Default due months: %d\n", cfg.Invoice.DefaultDueMonths)
		fmt.Fprintf(out, "Config file:        %s\n", config.DefaultConfigPath())
		return nil
	},
}

var settingsVATCmd = &cobra.Command{
	Use:   "vat [percentage]",
	Short: "Set the VAT percentage (0-50)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return domain.ErrInvalidVATPercentage
		}

		if err := appInstance.SettingsService.UpdateVATPercentage(context.Background(), v); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ VAT percentage updated to %g%%\n", v)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsVATCmd)
}
