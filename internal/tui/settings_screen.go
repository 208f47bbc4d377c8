package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicebook/internal/app"
	"github.com/andy/invoicebook/internal/config"
	"github.com/andy/invoicebook/internal/domain"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

type settingsSavedMsg struct {
	vat float64
	err error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app       *app.App
	mode      settingsMode
	vatInput  textinput.Model
	err       error
	statusMsg string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.vatInput = textinput.New()
	m.vatInput.Placeholder = fmt.Sprintf("%g", domain.DefaultVATPercentage)
	m.vatInput.CharLimit = 6
	m.vatInput.Width = 10
	m.vatInput.SetValue(strconv.FormatFloat(m.app.SettingsService.Get().VATPercentage, 'f', -1, 64))
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	raw := strings.TrimSpace(m.vatInput.Value())
	return func() tea.Msg {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return settingsSavedMsg{err: domain.ErrInvalidVATPercentage}
		}
		if err := m.app.SettingsService.UpdateVATPercentage(context.Background(), v); err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{vat: v}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		if msg.String() == "enter" {
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.vatInput.Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.err = nil
		m.statusMsg = fmt.Sprintf("VAT percentage updated to %g%%", msg.vat)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "enter", "ctrl+s":
			return m, m.saveSettings()
		}
	}

	var cmd tea.Cmd
	m.vatInput, cmd = m.vatInput.Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Config
	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	value := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Tax") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("VAT Percentage:"),
		value.Render(fmt.Sprintf("%g%%", m.app.SettingsService.Get().VATPercentage)))

	s += "\n" + subtitleStyle.Render("  Storage") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Backend:"), value.Render(cfg.Storage.Backend))
	if cfg.Storage.Backend != config.BackendMemory {
		s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Database:"), value.Render(cfg.Storage.Path))
	}
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Default Due Months:"), value.Render(strconv.Itoa(cfg.Invoice.DefaultDueMonths)))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Export Directory:"), value.Render(cfg.Invoice.ExportDir))

	s += "\n" + helpStyle.Render("  enter: edit VAT percentage")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	label := lipgloss.NewStyle().Bold(true).Foreground(primaryColor).
		Render(fmt.Sprintf("VAT Percentage (0-%g):", domain.MaxVATPercentage))
	s += fmt.Sprintf("> %s\n  %s\n\n", label, m.vatInput.View())

	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %s", errorText(m.err))) + "\n\n"
	}

	s += helpStyle.Render("  enter/ctrl+s: save  esc: cancel")

	return s
}
