package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/andy/invoicebook/internal/app"
	"github.com/andy/invoicebook/internal/domain"
)

type invoiceViewMode int

const (
	invoiceViewList          invoiceViewMode = iota
	invoiceViewDetail                        // Viewing a single invoice
	invoiceViewForm                          // Adding or editing
	invoiceViewConfirmDelete                 // y/n prompt
)

// invoice form field indices
const (
	invoiceFieldClient = iota
	invoiceFieldService
	invoiceFieldAmount
	invoiceFieldDate
	invoiceFieldDue
	invoiceFieldStatus
	invoiceFieldNotes
	invoiceFieldCount
)

var invoiceFieldLabels = [invoiceFieldCount]string{
	"Client Name:",
	"Service Type:",
	"Amount (€):",
	"Invoice Date (YYYY-MM-DD):",
	"Due Date (YYYY-MM-DD):",
	"Status (pending, sent, paid, overdue):",
	"Notes:",
}

// InvoicesModel lists invoices and hosts the add/edit form
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []domain.Invoice
	cursor    int
	filter    domain.InvoiceStatus // empty shows every status
	loading   bool
	err       error
	statusMsg string

	// Form state; editingID is empty when adding
	fields     []textinput.Model
	fieldFocus int
	editingID  domain.InvoiceID
}

// IsCapturingInput returns true when the add/edit form is active
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.mode == invoiceViewForm
}

type invoicesDataMsg struct {
	invoices []domain.Invoice
}

// invoiceSavedMsg reports the outcome of a mutation
type invoiceSavedMsg struct {
	status string
	err    error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		return invoicesDataMsg{invoices: m.app.InvoiceService.List()}
	}
}

// visible returns the invoices that pass the status filter
func (m *InvoicesModel) visible() []domain.Invoice {
	if m.filter == "" {
		return m.invoices
	}
	var out []domain.Invoice
	for _, inv := range m.invoices {
		if inv.Status == m.filter {
			out = append(out, inv)
		}
	}
	return out
}

func (m *InvoicesModel) current() (domain.Invoice, bool) {
	list := m.visible()
	if m.cursor < 0 || m.cursor >= len(list) {
		return domain.Invoice{}, false
	}
	return list[m.cursor], true
}

func (m *InvoicesModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// nextFilter cycles all -> pending -> sent -> paid -> overdue -> all
func nextFilter(f domain.InvoiceStatus) domain.InvoiceStatus {
	if f == domain.InvoiceStatusOverdue {
		return ""
	}
	if f == "" {
		return domain.InvoiceStatusPending
	}
	return f.Next()
}

func (m *InvoicesModel) initForm(inv *domain.Invoice) {
	m.fields = make([]textinput.Model, invoiceFieldCount)
	for i := range m.fields {
		m.fields[i] = textinput.New()
		m.fields[i].CharLimit = 120
		m.fields[i].Width = 40
	}

	m.fields[invoiceFieldClient].Placeholder = "Maria Silva"

	services := m.app.ServiceTypes()
	suggestions := make([]string, len(services))
	for i, st := range services {
		suggestions[i] = string(st)
	}
	m.fields[invoiceFieldService].Placeholder = suggestions[0]
	m.fields[invoiceFieldService].ShowSuggestions = true
	m.fields[invoiceFieldService].SetSuggestions(suggestions)

	m.fields[invoiceFieldAmount].Placeholder = "0.00"
	m.fields[invoiceFieldAmount].CharLimit = 15
	m.fields[invoiceFieldAmount].Width = 15
	m.fields[invoiceFieldDate].CharLimit = 10
	m.fields[invoiceFieldDate].Width = 12
	m.fields[invoiceFieldDue].CharLimit = 10
	m.fields[invoiceFieldDue].Width = 12
	m.fields[invoiceFieldStatus].CharLimit = 10
	m.fields[invoiceFieldStatus].Width = 12
	m.fields[invoiceFieldNotes].CharLimit = 500
	m.fields[invoiceFieldNotes].Width = 60

	if inv == nil {
		today := domain.Today()
		m.editingID = ""
		m.fields[invoiceFieldDate].SetValue(today.String())
		m.fields[invoiceFieldDue].SetValue(m.app.DefaultDueDate(today).String())
		m.fields[invoiceFieldStatus].SetValue(string(domain.InvoiceStatusPending))
	} else {
		m.editingID = inv.ID
		m.fields[invoiceFieldClient].SetValue(inv.ClientName)
		m.fields[invoiceFieldService].SetValue(string(inv.ServiceType))
		m.fields[invoiceFieldAmount].SetValue(inv.Amount.String())
		m.fields[invoiceFieldDate].SetValue(inv.InvoiceDate.String())
		m.fields[invoiceFieldDue].SetValue(inv.DueDate.String())
		m.fields[invoiceFieldStatus].SetValue(string(inv.Status))
		m.fields[invoiceFieldNotes].SetValue(inv.Notes)
	}

	m.fieldFocus = invoiceFieldClient
	m.fields[invoiceFieldClient].Focus()
}

// formInput converts the form into an InvoiceInput. Blank or unparseable
// amounts and dates are left zero so validation reports them.
func (m *InvoicesModel) formInput() (domain.InvoiceInput, error) {
	value := func(i int) string { return strings.TrimSpace(m.fields[i].Value()) }

	in := domain.InvoiceInput{
		ClientName:  value(invoiceFieldClient),
		ServiceType: domain.ServiceType(value(invoiceFieldService)),
		Notes:       value(invoiceFieldNotes),
	}

	if s := value(invoiceFieldAmount); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return in, fmt.Errorf("invalid amount %q", s)
		}
		in.Amount = amount
	}

	var err error
	if s := value(invoiceFieldDate); s != "" {
		if in.InvoiceDate, err = domain.ParseDate(s); err != nil {
			return in, err
		}
	}
	if s := value(invoiceFieldDue); s != "" {
		if in.DueDate, err = domain.ParseDate(s); err != nil {
			return in, err
		}
	}
	if s := value(invoiceFieldStatus); s != "" {
		if in.Status, err = domain.ParseInvoiceStatus(s); err != nil {
			return in, err
		}
	}
	return in, nil
}

func (m *InvoicesModel) saveForm() tea.Cmd {
	in, err := m.formInput()
	id := m.editingID
	return func() tea.Msg {
		if err != nil {
			return invoiceSavedMsg{err: err}
		}
		ctx := context.Background()
		if id == "" {
			if _, err := m.app.InvoiceService.Create(ctx, in); err != nil {
				return invoiceSavedMsg{err: err}
			}
			return invoiceSavedMsg{status: "Invoice added successfully!"}
		}
		if _, err := m.app.InvoiceService.Update(ctx, id, in); err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{status: "Invoice updated successfully!"}
	}
}

func (m *InvoicesModel) cycleStatus(inv domain.Invoice) tea.Cmd {
	return func() tea.Msg {
		next := inv.Status.Next()
		if _, err := m.app.InvoiceService.SetStatus(context.Background(), inv.ID, next); err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{status: fmt.Sprintf("Invoice status updated to %s!", next)}
	}
}

func (m *InvoicesModel) deleteInvoice(id domain.InvoiceID) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.InvoiceService.Delete(context.Background(), id); err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{status: "Invoice deleted successfully!"}
	}
}

func (m *InvoicesModel) markOverdue() tea.Cmd {
	return func() tea.Msg {
		n, err := m.app.InvoiceService.MarkOverdue(context.Background(), domain.Today())
		if err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{status: fmt.Sprintf("%d invoice(s) marked overdue", n)}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.invoices = msg.invoices
		m.clampCursor()
		return m, nil

	case invoiceSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			if m.mode == invoiceViewConfirmDelete {
				m.mode = invoiceViewList
			}
			return m, nil
		}
		m.err = nil
		m.statusMsg = msg.status
		m.mode = invoiceViewList
		return m, m.loadInvoices()

	case tea.KeyMsg:
		switch m.mode {
		case invoiceViewForm:
			return m.updateForm(msg)
		case invoiceViewConfirmDelete:
			return m.updateConfirmDelete(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.mode == invoiceViewForm {
		var cmd tea.Cmd
		m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, DefaultKeyMap.Filter):
		m.filter = nextFilter(m.filter)
		m.cursor = 0
		return m, nil

	case key.Matches(msg, DefaultKeyMap.New):
		m.statusMsg = ""
		m.mode = invoiceViewForm
		m.initForm(nil)
		return m, textinput.Blink

	case key.Matches(msg, DefaultKeyMap.MarkOverdue):
		return m, m.markOverdue()
	}

	inv, ok := m.current()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Select):
		m.mode = invoiceViewDetail
	case key.Matches(msg, DefaultKeyMap.Edit):
		m.statusMsg = ""
		m.mode = invoiceViewForm
		m.initForm(&inv)
		return m, textinput.Blink
	case key.Matches(msg, DefaultKeyMap.CycleStatus):
		return m, m.cycleStatus(inv)
	case key.Matches(msg, DefaultKeyMap.Delete):
		m.statusMsg = ""
		m.mode = invoiceViewConfirmDelete
	}
	return m, nil
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inv, ok := m.current()
	switch {
	case key.Matches(msg, DefaultKeyMap.Back), !ok:
		m.mode = invoiceViewList
	case key.Matches(msg, DefaultKeyMap.Edit):
		m.mode = invoiceViewForm
		m.initForm(&inv)
		return m, textinput.Blink
	case key.Matches(msg, DefaultKeyMap.CycleStatus):
		return m, m.cycleStatus(inv)
	case key.Matches(msg, DefaultKeyMap.Delete):
		m.mode = invoiceViewConfirmDelete
	}
	return m, nil
}

func (m *InvoicesModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if inv, ok := m.current(); ok {
			return m, m.deleteInvoice(inv.ID)
		}
		m.mode = invoiceViewList
	default:
		m.mode = invoiceViewList
	}
	return m, nil
}

func (m *InvoicesModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = invoiceViewList
		m.err = nil
		return m, nil

	case "tab", "down":
		// Tab accepts a visible service suggestion before moving on
		if msg.String() == "tab" && m.fieldFocus == invoiceFieldService {
			if s := m.fields[invoiceFieldService].CurrentSuggestion(); s != "" && s != m.fields[invoiceFieldService].Value() {
				m.fields[invoiceFieldService].SetValue(s)
				m.fields[invoiceFieldService].CursorEnd()
				return m, nil
			}
		}
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus = (m.fieldFocus + 1) % invoiceFieldCount
		return m, m.fields[m.fieldFocus].Focus()

	case "shift+tab", "up":
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus = (m.fieldFocus - 1 + invoiceFieldCount) % invoiceFieldCount
		return m, m.fields[m.fieldFocus].Focus()

	case "enter":
		if m.fieldFocus == invoiceFieldCount-1 {
			return m, m.saveForm()
		}
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus++
		return m, m.fields[m.fieldFocus].Focus()

	case "ctrl+s":
		return m, m.saveForm()
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}

	switch m.mode {
	case invoiceViewDetail:
		return m.viewDetail()
	case invoiceViewForm:
		return m.viewForm()
	case invoiceViewConfirmDelete:
		return m.viewList() + "\n\n" + lipgloss.NewStyle().Bold(true).Foreground(warningColor).
			Render("  Are you sure you want to delete this invoice? (y/n)")
	default:
		return m.viewList()
	}
}

func (m *InvoicesModel) viewList() string {
	var s string

	title := "Invoices"
	if m.filter != "" {
		title += " - " + m.filter.Label()
	}
	s += titleStyle.Render(title) + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %s", errorText(m.err))) + "\n\n"
	}

	list := m.visible()
	if len(list) == 0 {
		s += subtitleStyle.Render("  No invoices found") + "\n"
	} else {
		s += subtitleStyle.Render(fmt.Sprintf(
			"  %-10s  %-22s  %-18s  %12s  %-10s  %s",
			"Date", "Client", "Service", "Amount", "Due", "Status",
		)) + "\n"

		for i, inv := range list {
			line := fmt.Sprintf("  %-10s  %-22s  %-18s  %12s  %-10s  ",
				inv.InvoiceDate.String(),
				truncateStr(inv.ClientName, 22),
				truncateStr(string(inv.ServiceType), 18),
				formatMoney(inv.Amount),
				inv.DueDate.String(),
			)
			if i == m.cursor {
				s += selectedStyle.Render(line+inv.Status.Label()) + "\n"
			} else {
				s += line + statusBadge(inv.Status) + "\n"
			}
		}
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: detail  n: new  e: edit  s: next status  x: delete  o: mark overdue  f: filter")

	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv, ok := m.current()
	if !ok {
		return "No invoice selected"
	}

	var s string
	s += titleStyle.Render(fmt.Sprintf("Invoice %s", inv.ID)) + "\n\n"
	s += fmt.Sprintf("  Client:    %s\n", inv.ClientName)
	s += fmt.Sprintf("  Service:   %s\n", inv.ServiceType)
	s += fmt.Sprintf("  Date:      %s\n", inv.InvoiceDate)
	s += fmt.Sprintf("  Due:       %s\n", inv.DueDate)
	s += fmt.Sprintf("  Status:    %s\n", statusBadge(inv.Status))
	s += lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  Amount:    %s", formatMoney(inv.Amount)),
	) + "\n"
	if inv.Notes != "" {
		s += "\n" + boxStyle.Render(inv.Notes) + "\n"
	}

	s += "\n" + helpStyle.Render("  e: edit  s: next status  x: delete  esc: back to list")

	return s
}

func (m *InvoicesModel) viewForm() string {
	var s string
	if m.editingID == "" {
		s += titleStyle.Render("New Invoice") + "\n\n"
	} else {
		s += titleStyle.Render("Edit Invoice") + "\n\n"
	}

	for i, label := range invoiceFieldLabels {
		indicator := "  "
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += "\n" + lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %s", errorText(m.err))) + "\n"
	}

	s += "\n" + helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}

// statusBadge renders an invoice status with color
func statusBadge(status domain.InvoiceStatus) string {
	switch status {
	case domain.InvoiceStatusPending:
		return lipgloss.NewStyle().Foreground(warningColor).Render("PENDING")
	case domain.InvoiceStatusSent:
		return lipgloss.NewStyle().Foreground(primaryColor).Render("SENT")
	case domain.InvoiceStatusPaid:
		return lipgloss.NewStyle().Foreground(successColor).Render("PAID")
	case domain.InvoiceStatusOverdue:
		return lipgloss.NewStyle().Foreground(errorColor).Render("OVERDUE")
	default:
		return string(status)
	}
}
