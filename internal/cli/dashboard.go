package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/service"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show revenue and tax totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := appInstance.ReportService.Dashboard()
		printDashboard(cmd, d)
		return nil
	},
}

func printDashboard(cmd *cobra.Command, d service.Dashboard) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, strings.Repeat("=", 44))
	fmt.Fprintf(out, "%-28s %15d\n", "Total invoices", d.TotalInvoices)
	fmt.Fprintf(out, "%-28s %15s\n", "Total revenue", money(d.TotalRevenue))
	fmt.Fprintf(out, "%-28s %15s\n", "Pending payments", money(d.PendingPayments))
	fmt.Fprintln(out, strings.Repeat("-", 44))
	fmt.Fprintf(out, "%-28s %15s\n", fmt.Sprintf("VAT (%g%%)", d.VATPercentage), money(d.VATAmount))
	fmt.Fprintf(out, "%-28s %15s\n", "Income tax", money(d.IncomeTaxAmount))
	fmt.Fprintf(out, "%-28s %15s\n", "Total tax", money(d.TotalTaxAmount))
	fmt.Fprintln(out, strings.Repeat("-", 44))

	for _, status := range domain.InvoiceStatuses {
		total := d.ByStatus[status]
		fmt.Fprintf(out, "%-12s %5d %25s\n", status.Label(), total.Count, money(total.Amount))
	}
	fmt.Fprintln(out, strings.Repeat("=", 44))
}
