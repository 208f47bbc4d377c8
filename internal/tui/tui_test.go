package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
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
	return a
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and feeds its message back into m, following any chained commands
func drain(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	for i := 0; cmd != nil && i < 5; i++ {
		msg := cmd()
		if msg == nil {
			return m
		}
		m, cmd = m.Update(msg)
	}
	return m
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€0.00"},
		{"250.5", "€250.50"},
		{"1234567.891", "€1,234,567.89"},
		{"-5", "-€5.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestTruncateStr(t *testing.T) {
	assert.Equal(t, "Ana", truncateStr("Ana", 10))
	assert.Equal(t, "Conceiç...", truncateStr("Conceição Ferreira", 10))
	assert.Equal(t, "Co", truncateStr("Conceição", 2))
}

func TestNextFilter(t *testing.T) {
	f := domain.InvoiceStatus("")
	var seen []domain.InvoiceStatus
	for i := 0; i < 5; i++ {
		f = nextFilter(f)
		seen = append(seen, f)
	}
	assert.Equal(t, []domain.InvoiceStatus{
		domain.InvoiceStatusPending,
		domain.InvoiceStatusSent,
		domain.InvoiceStatusPaid,
		domain.InvoiceStatusOverdue,
		"",
	}, seen)
}

func TestInvoicesScreen_AddCycleDelete(t *testing.T) {
	a := setupApp(t)
	m := NewInvoicesModel(a).(*InvoicesModel)
	drain(t, m, m.Init())

	m.Update(keyPress("n"))
	require.True(t, m.IsCapturingInput())
	assert.Equal(t, domain.Today().String(), m.fields[invoiceFieldDate].Value())
	assert.Equal(t, a.DefaultDueDate(domain.Today()).String(), m.fields[invoiceFieldDue].Value())

	m.fields[invoiceFieldClient].SetValue("Maria Silva")
	m.fields[invoiceFieldService].SetValue("Bridal Makeup")
	m.fields[invoiceFieldAmount].SetValue("250.50")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drain(t, m, cmd)

	assert.False(t, m.IsCapturingInput())
	assert.Equal(t, "Invoice added successfully!", m.statusMsg)
	require.Len(t, a.InvoiceService.List(), 1)
	assert.Contains(t, m.View(), "Maria Silva")

	_, cmd = m.Update(keyPress("s"))
	drain(t, m, cmd)
	assert.Equal(t, domain.InvoiceStatusSent, a.InvoiceService.List()[0].Status)
	assert.Equal(t, "Invoice status updated to sent!", m.statusMsg)

	m.Update(keyPress("x"))
	assert.Contains(t, m.View(), "Are you sure you want to delete this invoice?")
	m.Update(keyPress("n"))
	assert.Len(t, a.InvoiceService.List(), 1)

	m.Update(keyPress("x"))
	_, cmd = m.Update(keyPress("y"))
	drain(t, m, cmd)
	assert.Empty(t, a.InvoiceService.List())
	assert.Equal(t, "Invoice deleted successfully!", m.statusMsg)
}

func TestInvoicesScreen_ValidationKeepsForm(t *testing.T) {
	a := setupApp(t)
	m := NewInvoicesModel(a).(*InvoicesModel)
	drain(t, m, m.Init())

	m.Update(keyPress("n"))
	m.fields[invoiceFieldClient].SetValue("M")
	m.fields[invoiceFieldService].SetValue("Other")
	m.fields[invoiceFieldAmount].SetValue("0")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drain(t, m, cmd)

	assert.True(t, m.IsCapturingInput())
	var verr *domain.ValidationError
	require.ErrorAs(t, m.err, &verr)
	assert.True(t, verr.Has(domain.ViolationClientName))
	assert.True(t, verr.Has(domain.ViolationAmount))
	assert.Empty(t, a.InvoiceService.List())

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsCapturingInput())
}

func TestInvoicesScreen_EditPrefillsForm(t *testing.T) {
	a := setupApp(t)
	_, err := a.InvoiceService.Create(context.Background(), domain.InvoiceInput{
		ClientName:  "Ana",
		ServiceType: "Other",
		Amount:      decimal.NewFromInt(80),
		InvoiceDate: domain.NewDate(2024, 3, 1),
		DueDate:     domain.NewDate(2024, 4, 1),
	})
	require.NoError(t, err)

	m := NewInvoicesModel(a).(*InvoicesModel)
	drain(t, m, m.Init())

	m.Update(keyPress("e"))
	require.True(t, m.IsCapturingInput())
	assert.Equal(t, "Ana", m.fields[invoiceFieldClient].Value())
	assert.Equal(t, "2024-04-01", m.fields[invoiceFieldDue].Value())

	m.fields[invoiceFieldAmount].SetValue("95")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	drain(t, m, cmd)

	assert.Equal(t, "Invoice updated successfully!", m.statusMsg)
	assert.Equal(t, "95", a.InvoiceService.List()[0].Amount.String())
}

func TestDashboardScreen(t *testing.T) {
	a := setupApp(t)
	_, err := a.InvoiceService.Create(context.Background(), domain.InvoiceInput{
		ClientName:  "Ana",
		ServiceType: "Other",
		Amount:      decimal.NewFromInt(5000),
		InvoiceDate: domain.NewDate(2024, 3, 1),
		DueDate:     domain.NewDate(2024, 4, 1),
		Status:      domain.InvoiceStatusPaid,
	})
	require.NoError(t, err)

	m := NewDashboardModel(a)
	m = drain(t, m, m.Init())

	view := m.View()
	assert.Contains(t, view, "€5,000.00")
	assert.Contains(t, view, "€1,150.00")
	assert.Contains(t, view, "€161.28")
	assert.Contains(t, view, "€1,311.28")
}

func TestSettingsScreen_UpdateVAT(t *testing.T) {
	a := setupApp(t)
	m := NewSettingsModel(a).(*SettingsModel)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.IsCapturingInput())
	assert.Equal(t, "23", m.vatInput.Value())

	m.vatInput.SetValue("60")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)
	assert.ErrorIs(t, m.err, domain.ErrInvalidVATPercentage)
	assert.True(t, m.IsCapturingInput())

	m.vatInput.SetValue("10")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(t, m, cmd)
	assert.False(t, m.IsCapturingInput())
	assert.Equal(t, "VAT percentage updated to 10%", m.statusMsg)
	assert.Equal(t, 10.0, a.SettingsService.Get().VATPercentage)
}

func TestModel_NavigationAndNotices(t *testing.T) {
	a := setupApp(t)
	a.Notices = []string{"Error loading saved data. Starting fresh."}

	var m tea.Model = New(a)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Contains(t, m.View(), "Error loading saved data. Starting fresh.")

	m, _ = m.Update(keyPress("i"))
	assert.Equal(t, ScreenInvoices, m.(Model).currentScreen)
	assert.NotContains(t, m.View(), "Starting fresh.")

	m, _ = m.Update(keyPress("d"))
	var cmd tea.Cmd
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	assert.Equal(t, ScreenInvoices, m.(Model).currentScreen)

	m, _ = m.Update(keyPress(","))
	assert.Equal(t, ScreenSettings, m.(Model).currentScreen)

	// Navigation keys are ignored while a form has focus
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(keyPress("d"))
	assert.Equal(t, ScreenSettings, m.(Model).currentScreen)
}
