package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/finance"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldOutputDir = iota
	settingsFieldDueDays
	settingsFieldTaxRate
	settingsFieldModel
	settingsFieldTimeout
	settingsFieldUserName
	settingsFieldUserEmail
	settingsFieldUserAddress
	settingsFieldCount
)

var settingsLabels = [settingsFieldCount]string{
	"Output Directory:",
	"Default Due Days:",
	"Tax Rate (%):",
	"AI Model:",
	"AI Timeout:",
	"Your Name:",
	"Your Email:",
	"Your Address:",
}

// settingsSavedMsg carries a parsed form. apply is run against the config
// on the event loop, never inside the command.
type settingsSavedMsg struct {
	apply func(*config.Config)
	err   error
}

// SettingsModel manages the settings screen
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
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
	cfg := m.app.Settings()
	values := [settingsFieldCount]string{
		cfg.Invoice.OutputDir,
		strconv.Itoa(cfg.Invoice.DefaultDueDays),
		formatNumber(cfg.Invoice.DefaultTaxRate),
		cfg.AI.Model,
		cfg.AI.Timeout.String(),
		cfg.User.Name,
		cfg.User.Email,
		cfg.User.Address,
	}
	placeholders := [settingsFieldCount]string{
		"/path/to/invoices", "14", "10", "gemini-2.5-flash", "30s", "Jane Doe", "jane@example.com", "1 Main St",
	}

	m.fields = make([]textinput.Model, settingsFieldCount)
	for i := range m.fields {
		m.fields[i] = textinput.New()
		m.fields[i].Placeholder = placeholders[i]
		m.fields[i].CharLimit = 256
		m.fields[i].Width = 60
		m.fields[i].SetValue(values[i])
	}
	m.fields[settingsFieldDueDays].Width = 10
	m.fields[settingsFieldTaxRate].Width = 10
	m.fields[settingsFieldTimeout].Width = 10

	m.fieldFocus = settingsFieldOutputDir
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	values := make([]string, settingsFieldCount)
	for i, f := range m.fields {
		values[i] = strings.TrimSpace(f.Value())
	}

	return func() tea.Msg {
		if values[settingsFieldOutputDir] == "" {
			return settingsSavedMsg{err: fmt.Errorf("output directory is required")}
		}

		dueDays, err := strconv.Atoi(values[settingsFieldDueDays])
		if err != nil || dueDays < 0 {
			return settingsSavedMsg{err: fmt.Errorf("due days must be a non-negative number")}
		}

		taxRate, err := strconv.ParseFloat(values[settingsFieldTaxRate], 64)
		if err != nil || taxRate < 0 {
			return settingsSavedMsg{err: fmt.Errorf("tax rate must be a non-negative number")}
		}

		timeout, err := time.ParseDuration(values[settingsFieldTimeout])
		if err != nil || timeout < 0 {
			return settingsSavedMsg{err: fmt.Errorf("timeout must be a duration like 30s")}
		}

		apply := func(cfg *config.Config) {
			cfg.Invoice.OutputDir = values[settingsFieldOutputDir]
			cfg.Invoice.DefaultDueDays = dueDays
			cfg.Invoice.DefaultTaxRate = taxRate
			cfg.AI.Model = values[settingsFieldModel]
			cfg.AI.Timeout = timeout
			cfg.User.Name = values[settingsFieldUserName]
			cfg.User.Email = values[settingsFieldUserEmail]
			cfg.User.Address = values[settingsFieldUserAddress]
		}
		return settingsSavedMsg{apply: apply}
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
			return m, m.fields[m.fieldFocus].Focus()
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
		if err := m.app.UpdateConfig(context.Background(), msg.apply); err != nil {
			m.err = err
			return m, nil
		}
		m.mode = settingsModeView
		m.err = nil
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
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
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	cfg := m.app.Settings()

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), valueStyle.Render(value))
	}

	s += subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += row("Output Directory:", cfg.Invoice.OutputDir)
	s += row("Default Due Days:", strconv.Itoa(cfg.Invoice.DefaultDueDays))
	s += row("Default Tax Rate:", finance.FormatPercent(cfg.Invoice.DefaultTaxRate))
	s += row("ID Prefix:", cfg.Invoice.IDPrefix)

	aiStatus := "not configured (run 'invoicer key set')"
	if m.app.Gateway().Configured() {
		aiStatus = "configured"
	}
	s += "\n" + subtitleStyle.Render("  AI") + "\n\n"
	s += row("Model:", cfg.AI.Model)
	s += row("Timeout:", cfg.AI.Timeout.String())
	s += row("API Key:", aiStatus)

	s += "\n" + subtitleStyle.Render("  Your Details") + "\n\n"
	s += row("Name:", cfg.User.Name)
	s += row("Email:", cfg.User.Email)
	s += row("Address:", cfg.User.Address)

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	for i, label := range settingsLabels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}
