package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andy/invoicebook/internal/domain"
)

var invoicesCmd = &cobra.Command{
	Use:     "invoices",
	Aliases: []string{"inv"},
	Short:   "Manage invoices",
	Long:    `Add, edit, list, and manage invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		statusFilter, _ := cmd.Flags().GetString("status")
		clientFilter, _ := cmd.Flags().GetString("client")

		var status domain.InvoiceStatus
		if statusFilter != "" {
			s, err := domain.ParseInvoiceStatus(statusFilter)
			if err != nil {
				return err
			}
			status = s
		}

		var invoices []domain.Invoice
		for _, inv := range appInstance.InvoiceService.List() {
			if status != "" && inv.Status != status {
				continue
			}
			if clientFilter != "" && !strings.Contains(strings.ToLower(inv.ClientName), strings.ToLower(clientFilter)) {
				continue
			}
			invoices = append(invoices, inv)
		}

		if len(invoices) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		fmt.Fprintf(out, "%-20s %-12s %-20s %-18s %12s %-12s %-8s\n",
			"ID", "Date", "Client", "Service", "Amount", "Due", "Status")
		fmt.Fprintln(out, strings.Repeat("-", 108))

		for _, inv := range invoices {
			fmt.Fprintf(out, "%-20s %-12s %-20s %-18s %12s %-12s %-8s\n",
				truncate(string(inv.ID), 20),
				inv.InvoiceDate.String(),
				truncate(inv.ClientName, 20),
				truncate(string(inv.ServiceType), 18),
				money(inv.Amount),
				inv.DueDate.String(),
				inv.Status.Label(),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new invoice",
	Long: `Add a new invoice.

Examples:
  invoicebook invoices add --client "Maria Silva" --service "Bridal Makeup" --amount 250
  invoicebook invoices add --client "Ana" --service Other --amount 80 --date 2024-05-01 --due 2024-05-15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		in := domain.InvoiceInput{InvoiceDate: domain.Today()}
		in.ClientName, _ = cmd.Flags().GetString("client")
		service, _ := cmd.Flags().GetString("service")
		in.ServiceType = domain.ServiceType(service)
		in.Notes, _ = cmd.Flags().GetString("notes")

		amountStr, _ := cmd.Flags().GetString("amount")
		amount, err := parseAmount(amountStr)
		if err != nil {
			return err
		}
		in.Amount = amount

		if dateStr, _ := cmd.Flags().GetString("date"); dateStr != "" {
			if in.InvoiceDate, err = domain.ParseDate(dateStr); err != nil {
				return err
			}
		}

		in.DueDate = appInstance.DefaultDueDate(in.InvoiceDate)
		if dueStr, _ := cmd.Flags().GetString("due"); dueStr != "" {
			if in.DueDate, err = domain.ParseDate(dueStr); err != nil {
				return err
			}
		}

		if statusStr, _ := cmd.Flags().GetString("status"); statusStr != "" {
			if in.Status, err = domain.ParseInvoiceStatus(statusStr); err != nil {
				return err
			}
		}

		invoice, err := appInstance.InvoiceService.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to add invoice: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ Invoice added successfully!")
		fmt.Fprintf(out, "  ID: %s\n", invoice.ID)
		fmt.Fprintf(out, "  Client: %s\n", invoice.ClientName)
		fmt.Fprintf(out, "  Amount: %s (due %s)\n", money(invoice.Amount), invoice.DueDate)
		return nil
	},
}

var invoicesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an invoice; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id := domain.InvoiceID(args[0])

		current, err := appInstance.InvoiceService.Get(id)
		if err != nil {
			return err
		}

		in := current.Input()
		flags := cmd.Flags()
		if flags.Changed("client") {
			in.ClientName, _ = flags.GetString("client")
		}
		if flags.Changed("service") {
			s, _ := flags.GetString("service")
			in.ServiceType = domain.ServiceType(s)
		}
		if flags.Changed("notes") {
			in.Notes, _ = flags.GetString("notes")
		}
		if flags.Changed("amount") {
			s, _ := flags.GetString("amount")
			if in.Amount, err = parseAmount(s); err != nil {
				return err
			}
		}
		if flags.Changed("date") {
			s, _ := flags.GetString("date")
			if in.InvoiceDate, err = domain.ParseDate(s); err != nil {
				return err
			}
		}
		if flags.Changed("due") {
			s, _ := flags.GetString("due")
			if in.DueDate, err = domain.ParseDate(s); err != nil {
				return err
			}
		}
		if flags.Changed("status") {
			s, _ := flags.GetString("status")
			if in.Status, err = domain.ParseInvoiceStatus(s); err != nil {
				return err
			}
		}

		updated, err := appInstance.InvoiceService.Update(ctx, id, in)
		if err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice updated successfully! (%s, %s)\n", updated.ClientName, money(updated.Amount))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := appInstance.InvoiceService.Get(domain.InvoiceID(args[0]))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "Invoice: %s\n", inv.ID)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "Client:       %s\n", inv.ClientName)
		fmt.Fprintf(out, "Service:      %s\n", inv.ServiceType)
		fmt.Fprintf(out, "Amount:       %s\n", money(inv.Amount))
		fmt.Fprintf(out, "Invoice date: %s\n", inv.InvoiceDate)
		fmt.Fprintf(out, "Due date:     %s\n", inv.DueDate)
		fmt.Fprintf(out, "Status:       %s\n", inv.Status.Label())
		if inv.Notes != "" {
			fmt.Fprintf(out, "Notes:        %s\n", inv.Notes)
		}
		fmt.Fprintln(out, strings.Repeat("=", 60))
		return nil
	},
}

var invoicesStatusCmd = &cobra.Command{
	Use:   "status [id] [pending|sent|paid|overdue]",
	Short: "Change an invoice's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		status, err := domain.ParseInvoiceStatus(args[1])
		if err != nil {
			return err
		}

		if _, err := appInstance.InvoiceService.SetStatus(ctx, domain.InvoiceID(args[0]), status); err != nil {
			return fmt.Errorf("failed to change status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice status updated to %s!\n", status)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id := domain.InvoiceID(args[0])

		if _, err := appInstance.InvoiceService.Get(id); err != nil {
			return err
		}

		if !confirmPrompt(cmd, "Are you sure you want to delete this invoice?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✓ Invoice deleted successfully!")
		return nil
	},
}

var invoicesMarkOverdueCmd = &cobra.Command{
	Use:   "mark-overdue",
	Short: "Mark pending and sent invoices past their due date as overdue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		asOf := domain.Today()
		if s, _ := cmd.Flags().GetString("as-of"); s != "" {
			var err error
			if asOf, err = domain.ParseDate(s); err != nil {
				return err
			}
		}

		n, err := appInstance.InvoiceService.MarkOverdue(ctx, asOf)
		if err != nil {
			return fmt.Errorf("failed to mark overdue invoices: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ %d invoice(s) marked overdue as of %s\n", n, asOf)
		return nil
	},
}

func addInvoiceFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("client", "", "Client name")
	cmd.Flags().String("service", "", "Service type (e.g. \"Bridal Makeup\")")
	cmd.Flags().String("amount", "", "Amount, e.g. 120.50")
	cmd.Flags().String("date", "", "Invoice date YYYY-MM-DD (defaults to today)")
	cmd.Flags().String("due", "", "Due date YYYY-MM-DD (defaults to one month after the invoice date)")
	cmd.Flags().String("status", "", "Status (pending, sent, paid, overdue)")
	cmd.Flags().String("notes", "", "Free-form notes")
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesAddCmd)
	invoicesCmd.AddCommand(invoicesEditCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesStatusCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesMarkOverdueCmd)

	// List flags
	invoicesListCmd.Flags().String("status", "", "Filter by status (pending, sent, paid, overdue)")
	invoicesListCmd.Flags().String("client", "", "Filter by client name (substring)")

	addInvoiceFieldFlags(invoicesAddCmd)
	invoicesAddCmd.MarkFlagRequired("client")
	invoicesAddCmd.MarkFlagRequired("service")
	invoicesAddCmd.MarkFlagRequired("amount")

	addInvoiceFieldFlags(invoicesEditCmd)

	invoicesDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	invoicesMarkOverdueCmd.Flags().String("as-of", "", "Reference date YYYY-MM-DD (defaults to today)")
}
