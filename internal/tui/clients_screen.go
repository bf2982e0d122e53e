package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/finance"
)

// ClientsModel displays the session's clients with their invoice totals
type ClientsModel struct {
	app     *app.App
	clients []*domain.Client
	stats   map[string]*clientStats
	cursor  int
	loading bool
	err     error
}

type clientStats struct {
	invoices    int
	billed      float64 // Paid, incl. tax
	outstanding float64 // Pending and Overdue, incl. tax
}

type clientsDataMsg struct {
	clients []*domain.Client
	stats   map[string]*clientStats
	err     error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	return &ClientsModel{
		app:     a,
		stats:   make(map[string]*clientStats),
		loading: true,
	}
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		clients, err := m.app.InvoiceService.ListClients(ctx)
		if err != nil {
			return clientsDataMsg{err: err}
		}
		invoices, err := m.app.InvoiceService.ListInvoices(ctx, domain.FacetAll, "")
		if err != nil {
			return clientsDataMsg{err: err}
		}

		byClient := make(map[string][]*domain.Invoice)
		for _, inv := range invoices {
			byClient[inv.ClientID] = append(byClient[inv.ClientID], inv)
		}

		stats := make(map[string]*clientStats, len(clients))
		for _, c := range clients {
			invs := byClient[c.ID]
			outstanding := finance.AggregateTotalByStatus(invs, domain.StatusPending) +
				finance.AggregateTotalByStatus(invs, domain.StatusOverdue)
			stats[c.ID] = &clientStats{
				invoices:    len(invs),
				billed:      finance.AggregateTotalByStatus(invs, domain.StatusPaid),
				outstanding: outstanding,
			}
		}

		return clientsDataMsg{clients: clients, stats: stats}
	}
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			m.stats = msg.stats
		}
		if m.cursor >= len(m.clients) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.clients)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.clients) > 0 {
				id := m.clients[m.cursor].ID
				return m, func() tea.Msg { return NewInvoiceMsg{ClientID: id} }
			}
		}
	}

	return m, nil
}

func (m *ClientsModel) View() string {
	if m.loading {
		return "Loading clients..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string
	s += titleStyle.Render("Clients") + "\n\n"

	if len(m.clients) == 0 {
		return s + subtitleStyle.Render("  No clients.") + "\n"
	}

	for i, client := range m.clients {
		s += m.renderClient(i, client) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: new invoice for client")

	return s
}

func (m *ClientsModel) renderClient(index int, client *domain.Client) string {
	indicator := "  "
	name := client.Name
	if index == m.cursor {
		indicator = "> "
		name = selectedStyle.Render(name)
	}

	cs := m.stats[client.ID]
	if cs == nil {
		cs = &clientStats{}
	}

	line1 := fmt.Sprintf("%s%s  %s", indicator, name, subtitleStyle.Render(client.Email))
	line2 := fmt.Sprintf("    Invoices: %d  |  Paid: %s  |  Outstanding: %s",
		cs.invoices, finance.FormatMoney(cs.billed), finance.FormatMoney(cs.outstanding))

	out := line1 + "\n" + line2
	if index == m.cursor && client.Address != "" {
		out += "\n" + subtitleStyle.Render("    "+truncateStr(client.Address, 60))
	}
	return out
}
