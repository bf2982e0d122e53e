package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/service"
)

const trendBarWidth = 30

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	stats   finance.Stats
	trend   []finance.MonthRevenue
	pastDue int

	// Insights. generation tags each request; only the reply carrying the
	// current generation is applied.
	insights        string
	insightsLoading bool
	generation      int
	cancel          context.CancelFunc

	loading bool
	err     error
}

type dashboardDataMsg struct {
	stats   finance.Stats
	trend   []finance.MonthRevenue
	pastDue int
	err     error
}

type insightsMsg struct {
	generation int
	text       string
	err        error
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
		ctx := context.Background()

		stats, err := m.app.ReportService.Stats(ctx)
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("stats: %w", err)}
		}
		trend, err := m.app.ReportService.RevenueTrend(ctx, service.TrendWindow)
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("revenue trend: %w", err)}
		}
		pastDue, err := m.app.ReportService.PastDue(ctx)
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("past due: %w", err)}
		}
		return dashboardDataMsg{stats: stats, trend: trend, pastDue: len(pastDue)}
	}
}

// fetchInsights starts a new insights request, superseding any in flight.
func (m *DashboardModel) fetchInsights() tea.Cmd {
	m.abandonInsights()
	gen := m.generation
	ctx, cancel := m.app.AIContext(context.Background())
	m.cancel = cancel
	m.insightsLoading = true

	return func() tea.Msg {
		defer cancel()
		text, err := m.app.ReportService.Insights(ctx)
		return insightsMsg{generation: gen, text: text, err: err}
	}
}

// abandonInsights invalidates and cancels the in-flight request, if any.
func (m *DashboardModel) abandonInsights() {
	m.generation++
	m.insightsLoading = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Leave drops any pending insights so a late reply cannot land on a later visit.
func (m *DashboardModel) Leave() {
	m.abandonInsights()
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.stats = msg.stats
		m.trend = msg.trend
		m.pastDue = msg.pastDue
		if m.stats.InvoiceCount > 0 && m.insights == "" && !m.insightsLoading {
			return m, m.fetchInsights()
		}
		return m, nil

	case insightsMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.insightsLoading = false
		m.cancel = nil
		if msg.err != nil {
			m.insights = ""
			m.err = fmt.Errorf("insights: %w", msg.err)
			return m, nil
		}
		m.insights = msg.text
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Refresh) {
			if m.insightsLoading || m.loading || m.stats.InvoiceCount == 0 {
				return m, nil
			}
			m.err = nil
			return m, m.fetchInsights()
		}

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	var b strings.Builder

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Revenue (last 6 months)"))
	b.WriteString("\n")
	b.WriteString(m.renderTrend())
	b.WriteString("\n")
	b.WriteString(m.renderInsights())

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("r: refresh insights"))
	return b.String()
}

func (m *DashboardModel) renderStats() string {
	stat := func(label, value string) string {
		return boxStyle.Render(subtitleStyle.Render(label) + "\n" + statValueStyle.Render(value))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Total Revenue", finance.FormatWhole(m.stats.TotalRevenue)),
		stat("Pending", finance.FormatWhole(m.stats.Pending)),
		stat("Overdue", finance.FormatWhole(m.stats.Overdue)),
		stat("Paid Invoices", fmt.Sprintf("%d", m.stats.PaidCount)),
	)
	if m.pastDue > 0 {
		row += "\n" + lipgloss.NewStyle().Foreground(warningColor).
			Render(fmt.Sprintf("%d pending invoice(s) past due", m.pastDue))
	}
	return row
}

func (m *DashboardModel) renderTrend() string {
	maxAmount := 0.0
	for _, mr := range m.trend {
		if mr.Amount > maxAmount {
			maxAmount = mr.Amount
		}
	}

	var b strings.Builder
	for _, mr := range m.trend {
		width := 0
		if maxAmount > 0 && mr.Amount > 0 {
			width = int(mr.Amount / maxAmount * trendBarWidth)
			if width == 0 {
				width = 1
			}
		}
		fmt.Fprintf(&b, "  %-4s %s %s\n",
			mr.Label(),
			barStyle.Render(strings.Repeat("█", width)+strings.Repeat(" ", trendBarWidth-width)),
			finance.FormatWhole(mr.Amount),
		)
	}
	return b.String()
}

func (m *DashboardModel) renderInsights() string {
	title := titleStyle.Render("AI Insights")
	switch {
	case m.insightsLoading:
		return title + "\n" + subtitleStyle.Render("  Analyzing your invoices...")
	case m.insights != "":
		return title + "\n" + insightStyle.Render(m.insights)
	case m.stats.InvoiceCount == 0:
		return title + "\n" + subtitleStyle.Render("  No invoices yet.")
	default:
		return title + "\n" + subtitleStyle.Render("  Press r to generate insights.")
	}
}
