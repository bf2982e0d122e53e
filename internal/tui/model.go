package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenInvoices
	ScreenEditor
	ScreenClients
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenInvoices:
		return "Invoices"
	case ScreenEditor:
		return "New Invoice"
	case ScreenClients:
		return "Clients"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized, the editor is rebuilt on every visit)
	dashboard tea.Model
	invoices  tea.Model
	editor    tea.Model
	clients   tea.Model
	settings  tea.Model

	err    error
	status string
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenDashboard,
		dashboard:     NewDashboardModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.dashboard != nil {
		return m.dashboard.Init()
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	refresh := func() tea.Msg { return RefreshDataMsg{} }
	switch screen {
	case ScreenDashboard:
		if m.dashboard == nil {
			m.dashboard = NewDashboardModel(m.app)
			return m.dashboard.Init()
		}
		return refresh
	case ScreenInvoices:
		if m.invoices == nil {
			m.invoices = NewInvoicesModel(m.app)
			return m.invoices.Init()
		}
		return refresh
	case ScreenEditor:
		m.editor = NewEditorModel(m.app, "")
		return m.editor.Init()
	case ScreenClients:
		if m.clients == nil {
			m.clients = NewClientsModel(m.app)
			return m.clients.Init()
		}
		return refresh
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
		return refresh
	}
	return nil
}

// switchTo leaves the current screen and enters screen.
func (m *Model) switchTo(screen Screen) tea.Cmd {
	if l, ok := m.screen(m.currentScreen).(leaver); ok {
		l.Leave()
	}
	m.currentScreen = screen
	m.err = nil
	return m.initScreen(screen)
}

func (m *Model) screen(s Screen) tea.Model {
	switch s {
	case ScreenDashboard:
		return m.dashboard
	case ScreenInvoices:
		return m.invoices
	case ScreenEditor:
		return m.editor
	case ScreenClients:
		return m.clients
	case ScreenSettings:
		return m.settings
	}
	return nil
}

func (m *Model) setScreen(s Screen, sm tea.Model) {
	switch s {
	case ScreenDashboard:
		m.dashboard = sm
	case ScreenInvoices:
		m.invoices = sm
	case ScreenEditor:
		m.editor = sm
	case ScreenClients:
		m.clients = sm
	case ScreenSettings:
		m.settings = sm
	}
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// leaver is implemented by screens with in-flight work to abandon when the
// user navigates away.
type leaver interface {
	Leave()
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screen(m.currentScreen).(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.status = ""

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if l, ok := m.screen(m.currentScreen).(leaver); ok {
					l.Leave()
				}
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Dashboard):
				return m, m.switchTo(ScreenDashboard)

			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m, m.switchTo(ScreenInvoices)

			case key.Matches(msg, DefaultKeyMap.NewInvoice):
				return m, m.switchTo(ScreenEditor)

			case key.Matches(msg, DefaultKeyMap.Clients):
				return m, m.switchTo(ScreenClients)

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)
			}
		}

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case NewInvoiceMsg:
		cmd := m.switchTo(ScreenEditor)
		if msg.ClientID != "" {
			m.editor = NewEditorModel(m.app, msg.ClientID)
			cmd = m.editor.Init()
		}
		return m, cmd

	case StatusMsg:
		m.status = msg.Text
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if sm := m.screen(m.currentScreen); sm != nil {
		sm, cmd = sm.Update(msg)
		m.setScreen(m.currentScreen, sm)
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("invoicer - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[D]ashboard  [I]nvoices  [N]ew invoice  [C]lients  [,] Settings  [Q]uit")

	content := "Loading..."
	if sm := m.screen(m.currentScreen); sm != nil {
		content = sm.View()
	}

	notice := ""
	if m.err != nil {
		notice = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	} else if m.status != "" {
		notice = successStyle.Render("\n" + m.status)
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", dividerWidth))

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, notice, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
