package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicebook/internal/app"
	"github.com/andy/invoicebook/internal/config"
	"github.com/andy/invoicebook/internal/domain"
)

func setupApp(t *testing.T) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Backend = config.BackendMemory
	cfg.Invoice.ExportDir = t.TempDir()
	cfg.Log.Output = "discard"

	a, err := app.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	SetApp(a)
	return a
}

// resetFlags clears flag state left behind by earlier runs of the package-level commands
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestInvoicesAddListShow(t *testing.T) {
	a := setupApp(t)

	out, err := run(t, "", "invoices", "add",
		"--client", "Maria Silva", "--service", "Bridal Makeup", "--amount", "250.5",
		"--date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Invoice added successfully!")

	list := a.InvoiceService.List()
	require.Len(t, list, 1)
	assert.Equal(t, "2024-04-01", list[0].DueDate.String())
	assert.Equal(t, domain.InvoiceStatusPending, list[0].Status)

	out, err = run(t, "", "invoices", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Maria Silva")
	assert.Contains(t, out, "€250.50")
	assert.Contains(t, out, "PENDING")

	out, err = run(t, "", "invoices", "list", "--status", "paid")
	require.NoError(t, err)
	assert.Contains(t, out, "No invoices found")

	out, err = run(t, "", "invoices", "show", string(list[0].ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Bridal Makeup")
}

func TestInvoicesAdd_ValidationMessage(t *testing.T) {
	setupApp(t)

	_, err := run(t, "", "invoices", "add",
		"--client", "M", "--service", "Other", "--amount", "0", "--date", "2024-03-01", "--due", "2024-02-01")
	require.Error(t, err)
	assert.Equal(t,
		"Please fix the following errors: Client name must be at least 2 characters long, Amount must be greater than 0, Due date cannot be before invoice date",
		ErrorMessage(err))
}

func TestInvoicesEditAndStatus(t *testing.T) {
	a := setupApp(t)

	_, err := run(t, "", "invoices", "add", "--client", "Ana", "--service", "Other", "--amount", "80")
	require.NoError(t, err)
	id := string(a.InvoiceService.List()[0].ID)

	_, err = run(t, "", "invoices", "edit", id, "--amount", "95")
	require.NoError(t, err)

	_, err = run(t, "", "invoices", "status", id, "paid")
	require.NoError(t, err)

	inv, err := a.InvoiceService.Get(domain.InvoiceID(id))
	require.NoError(t, err)
	assert.Equal(t, "95", inv.Amount.String())
	assert.Equal(t, "Ana", inv.ClientName)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)

	_, err = run(t, "", "invoices", "status", id, "void")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestInvoicesDelete_Confirmation(t *testing.T) {
	a := setupApp(t)

	_, err := run(t, "", "invoices", "add", "--client", "Ana", "--service", "Other", "--amount", "80")
	require.NoError(t, err)
	id := string(a.InvoiceService.List()[0].ID)

	out, err := run(t, "n\n", "invoices", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, a.InvoiceService.List(), 1)

	_, err = run(t, "", "invoices", "delete", id, "--yes")
	require.NoError(t, err)
	assert.Empty(t, a.InvoiceService.List())
}

func TestDashboardAndVAT(t *testing.T) {
	setupApp(t)

	_, err := run(t, "", "invoices", "add", "--client", "Ana", "--service", "Other", "--amount", "5000", "--status", "paid")
	require.NoError(t, err)

	out, err := run(t, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "€1150.00")
	assert.Contains(t, out, "€161.28")
	assert.Contains(t, out, "€1311.28")

	_, err = run(t, "", "settings", "vat", "60")
	assert.ErrorIs(t, err, domain.ErrInvalidVATPercentage)

	_, err = run(t, "", "settings", "vat", "10")
	require.NoError(t, err)

	out, err = run(t, "", "dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "VAT (10%)")
	assert.Contains(t, out, "€500.00")
}

func TestDataExportImportClear(t *testing.T) {
	a := setupApp(t)

	_, err := run(t, "", "invoices", "add", "--client", "Ana", "--service", "Other", "--amount", "80")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "backup.json")
	_, err = run(t, "", "data", "export", "-o", path)
	require.NoError(t, err)

	out, err := run(t, "", "data", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 invoices successfully!")
	assert.Len(t, a.InvoiceService.List(), 2)

	out, err = run(t, `[{"clientName": "no id"}]`, "data", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "No valid invoices found in the file.")

	_, err = run(t, "", "data", "clear", "--yes")
	require.NoError(t, err)
	assert.Empty(t, a.InvoiceService.List())
}

func TestDataExport_DefaultFileName(t *testing.T) {
	a := setupApp(t)

	_, err := run(t, "", "data", "export")
	require.NoError(t, err)

	entries, err := os.ReadDir(a.Config.Invoice.ExportDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^invoice-data-\d{4}-\d{2}-\d{2}\.json$`, entries[0].Name())
}

func TestResetAll(t *testing.T) {
	a := setupApp(t)

	_, err := run(t, "", "invoices", "add", "--client", "Ana", "--service", "Other", "--amount", "80")
	require.NoError(t, err)
	_, err = run(t, "", "settings", "vat", "10")
	require.NoError(t, err)

	out, err := run(t, "no\n", "reset", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, a.InvoiceService.List(), 1)

	out, err = run(t, "y\n", "reset", "all")
	require.NoError(t, err)
	assert.Contains(t, out, "All data has been deleted.")
	assert.Empty(t, a.InvoiceService.List())
	assert.Equal(t, domain.DefaultVATPercentage, a.SettingsService.Get().VATPercentage)
}
