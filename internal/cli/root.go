package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "invoicebook",
	Short: "Invoice bookkeeping for sole proprietors",
	Long: `Invoicebook records your invoices, tracks their payment status, and
works out revenue, VAT and income tax for the dashboard.

By default, running invoicebook without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
