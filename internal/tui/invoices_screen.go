package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/filter"
	"github.com/andy/invoicer/internal/finance"
)

type invoiceViewMode int

const (
	invoiceViewList   invoiceViewMode = iota
	invoiceViewSearch                 // Typing into the search box
	invoiceViewDetail                 // Viewing a single invoice
)

// InvoicesModel lists invoices with a status facet and a search box.
type InvoicesModel struct {
	app      *app.App
	mode     invoiceViewMode
	invoices []*domain.Invoice // everything loaded, unfiltered
	facet    domain.StatusFacet
	search   textinput.Model
	cursor   int
	selected *domain.Invoice

	loading   bool
	err       error
	statusMsg string
}

// IsCapturingInput returns true while the search box has focus
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.mode == invoiceViewSearch
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	err      error
}

type invoiceExportedMsg struct {
	path string
	err  error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "Search by client or invoice ID..."
	search.Prompt = "/ "
	search.CharLimit = 100
	search.Width = 40

	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		facet:   domain.FacetAll,
		search:  search,
		loading: true,
	}
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		invoices, err := m.app.InvoiceService.ListInvoices(context.Background(), domain.FacetAll, "")
		return invoicesDataMsg{invoices: invoices, err: err}
	}
}

func (m *InvoicesModel) exportSelected(format string) tea.Cmd {
	id := m.selected.ID
	return func() tea.Msg {
		path, err := m.app.ExportInvoice(context.Background(), id, format)
		return invoiceExportedMsg{path: path, err: err}
	}
}

// visible applies the facet and search query to the loaded invoices.
func (m *InvoicesModel) visible() []*domain.Invoice {
	return filter.Invoices(m.invoices, m.facet, m.search.Value())
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

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		m.invoices = msg.invoices
		m.clampCursor()
		return m, nil

	case invoiceExportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Exported to " + msg.path
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch m.mode {
		case invoiceViewList:
			return m.updateList(msg)
		case invoiceViewSearch:
			return m.updateSearch(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		}
	}

	if m.mode == invoiceViewSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	visible := m.visible()
	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Filter):
		m.facet = m.facet.Next()
		m.clampCursor()
	case key.Matches(msg, DefaultKeyMap.Search):
		m.mode = invoiceViewSearch
		m.statusMsg = ""
		return m, m.search.Focus()
	case key.Matches(msg, DefaultKeyMap.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.clampCursor()
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(visible) > 0 {
			m.selected = visible[m.cursor]
			m.mode = invoiceViewDetail
			m.statusMsg = ""
		}
	}

	return m, nil
}

func (m *InvoicesModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.search.Blur()
		m.mode = invoiceViewList
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.clampCursor()
	return m, cmd
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = invoiceViewList
		m.selected = nil
		m.statusMsg = ""
	case key.Matches(msg, DefaultKeyMap.ExportPDF):
		return m, m.exportSelected("pdf")
	case key.Matches(msg, DefaultKeyMap.ExportTxt):
		return m, m.exportSelected("txt")
	}
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading invoices..."
	}

	if m.mode == invoiceViewDetail && m.selected != nil {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *InvoicesModel) viewList() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Invoices"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render("Status: " + m.facet.String()))
	b.WriteString("\n")

	if m.mode == invoiceViewSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.statusMsg != "" {
		b.WriteString(successStyle.Render("  " + m.statusMsg))
		b.WriteString("\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	visible := m.visible()
	if len(m.invoices) == 0 {
		b.WriteString("  No invoices yet. Press n to create one.\n")
	} else if len(visible) == 0 {
		b.WriteString("  No invoices match the current filter.\n")
	} else {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %-22s %-22s %-12s %-10s %12s", "ID", "Client", "Date", "Status", "Total")))
		b.WriteString("\n")

		now := m.app.Now()
		for i, inv := range visible {
			row := fmt.Sprintf("%-22s %-22s %-12s %s %12s",
				truncateStr(inv.ID, 22),
				truncateStr(inv.ClientName, 22),
				inv.Date.Format(domain.DateLayout),
				statusBadge(inv.Status, 10),
				finance.FormatMoney(finance.Total(inv)),
			)
			if finance.IsPastDue(inv, now) {
				row += " " + errorStyle.Render("(past due)")
			}
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> ") + row)
			} else {
				b.WriteString("  " + row)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.mode == invoiceViewSearch {
		b.WriteString(helpStyle.Render("enter/esc: done"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓: navigate  enter: view  f: status filter  /: search  n: new invoice"))
	}
	return b.String()
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	totals := finance.ForInvoice(inv)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Invoice " + inv.ID))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  Client:  %s\n", inv.ClientName)
	fmt.Fprintf(&b, "  Status:  %s", statusBadge(inv.Status, 0))
	if finance.IsPastDue(inv, m.app.Now()) {
		b.WriteString(" " + errorStyle.Render("(past due)"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Date:    %s\n", inv.Date.Format(domain.DateLayout))
	if !inv.DueDate.IsZero() {
		fmt.Fprintf(&b, "  Due:     %s\n", inv.DueDate.Format(domain.DateLayout))
	}
	b.WriteString("\n")

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  %-32s %8s %12s %12s", "Description", "Qty", "Price", "Amount")))
	b.WriteString("\n")
	for _, it := range inv.Items {
		fmt.Fprintf(&b, "  %-32s %8s %12s %12s\n",
			truncateStr(it.Description, 32),
			formatNumber(it.Quantity),
			finance.FormatMoney(it.Price),
			finance.FormatMoney(finance.LineItemTotal(it)),
		)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %54s %12s\n", "Subtotal", finance.FormatMoney(totals.Subtotal))
	fmt.Fprintf(&b, "  %54s %12s\n", "Tax ("+finance.FormatPercent(inv.TaxRate)+")", finance.FormatMoney(totals.Tax))
	fmt.Fprintf(&b, "  %54s %12s\n", "Total", statValueStyle.Render(finance.FormatMoney(totals.Total)))

	if inv.Notes != "" {
		b.WriteString("\n  Notes:\n  ")
		b.WriteString(inv.Notes)
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + successStyle.Render("  "+m.statusMsg) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p: export pdf  t: export txt  esc: back"))
	return b.String()
}
