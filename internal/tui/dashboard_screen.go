package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicebook/internal/app"
	"github.com/andy/invoicebook/internal/domain"
	"github.com/andy/invoicebook/internal/service"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	summary service.Dashboard
	recent  []domain.Invoice

	loading bool
}

type dashboardDataMsg struct {
	summary service.Dashboard
	recent  []domain.Invoice
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		invoices := m.app.InvoiceService.List()

		// Most recent invoice date first
		sort.SliceStable(invoices, func(i, j int) bool {
			return invoices[i].InvoiceDate.After(invoices[j].InvoiceDate.Time)
		})
		if len(invoices) > 8 {
			invoices = invoices[:8]
		}

		return dashboardDataMsg{
			summary: m.app.ReportService.Dashboard(),
			recent:  invoices,
		}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.summary = msg.summary
		m.recent = msg.recent
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Select) {
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} }
		}
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	d := m.summary
	labelStyle := lipgloss.NewStyle().Bold(true).Width(20)

	var s string
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Total Invoices:"), valueStyle.Render(fmt.Sprint(d.TotalInvoices)))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Total Revenue:"), valueStyle.Render(formatMoney(d.TotalRevenue)))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Pending Payments:"), valueStyle.Render(formatMoney(d.PendingPayments)))
	s += "\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("VAT (%g%%):", d.VATPercentage)), valueStyle.Render(formatMoney(d.VATAmount)))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Income Tax:"), valueStyle.Render(formatMoney(d.IncomeTaxAmount)))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Total Tax:"), valueStyle.Render(formatMoney(d.TotalTaxAmount)))

	s += "\n" + m.renderStatusBreakdown()
	s += "\n" + m.renderRecentInvoices()
	s += "\n" + helpStyle.Render("  enter: open invoices")

	return s
}

func (m *DashboardModel) renderStatusBreakdown() string {
	var rows string
	for _, status := range domain.InvoiceStatuses {
		total := m.summary.ByStatus[status]
		rows += fmt.Sprintf("%-18s %3d  %12s\n", statusBadge(status), total.Count, formatMoney(total.Amount))
	}
	return "  By Status\n" + boxStyle.Render(rows[:len(rows)-1]) + "\n"
}

func (m *DashboardModel) renderRecentInvoices() string {
	header := "  Recent Invoices\n"
	if len(m.recent) == 0 {
		return header + subtitleStyle.Render("  No invoices yet. Press enter, then n to add one.") + "\n"
	}

	s := header
	for _, inv := range m.recent {
		s += fmt.Sprintf("  %-10s  %-20s %12s  %s\n",
			inv.InvoiceDate.String(),
			truncateStr(inv.ClientName, 20),
			formatMoney(inv.Amount),
			statusBadge(inv.Status),
		)
	}
	return s
}
