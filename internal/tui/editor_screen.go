package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/invoicer/internal/ai"
	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/service"
)

type editorMode int

const (
	editorModeForm editorMode = iota
	editorModeAI              // AI prompt modal is open
)

// editor header field indices; line item inputs follow, three per row
const (
	editorFieldClient = iota
	editorFieldStatus
	editorFieldDate
	editorFieldDue
	editorFieldTax
	editorFieldNotes
	editorFieldCount
)

// item row column indices
const (
	itemColDesc = iota
	itemColQty
	itemColPrice
	itemColCount
)

const generateFailedText = "Failed to generate items. Please try again."

type itemRow struct {
	id    string
	desc  textinput.Model
	qty   textinput.Model
	price textinput.Model
}

// EditorModel builds a new invoice. Nothing is stored until it is saved.
type EditorModel struct {
	app *app.App

	mode    editorMode
	draft   *service.Draft
	clients []*domain.Client
	preset  string // client to preselect, if any

	header []textinput.Model // indexed by editorField; client and status are unused
	rows   []itemRow
	focus  int

	// AI modal. seq tags each request; only the reply for the current seq
	// is applied, and only while generating.
	prompt     textinput.Model
	generating bool
	seq        int
	cancel     context.CancelFunc
	aiErr      string

	saving  bool
	loading bool
	err     error
}

type editorDataMsg struct {
	draft   *service.Draft
	clients []*domain.Client
	err     error
}

type itemsGeneratedMsg struct {
	seq   int
	items []domain.LineItem
	err   error
}

type editorSavedMsg struct {
	invoice *domain.Invoice
	err     error
}

// NewEditorModel creates an editor for a new invoice. A non-empty clientID
// preselects that client instead of the first one.
func NewEditorModel(a *app.App, clientID string) tea.Model {
	prompt := textinput.New()
	prompt.Placeholder = "e.g. 5 hours of consultation and a logo design"
	prompt.CharLimit = 1000
	prompt.Width = 60

	return &EditorModel{
		app:     a,
		mode:    editorModeForm,
		preset:  clientID,
		prompt:  prompt,
		loading: true,
	}
}

// IsCapturingInput is always true: the editor is a form throughout.
func (m *EditorModel) IsCapturingInput() bool {
	return true
}

func (m *EditorModel) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		draft, err := m.app.InvoiceService.NewDraft(ctx)
		if err != nil {
			return editorDataMsg{err: err}
		}
		clients, err := m.app.InvoiceService.ListClients(ctx)
		if err != nil {
			return editorDataMsg{err: err}
		}
		return editorDataMsg{draft: draft, clients: clients}
	}
}

func (m *EditorModel) initForm() {
	m.header = make([]textinput.Model, editorFieldCount)

	m.header[editorFieldDate] = textinput.New()
	m.header[editorFieldDate].Placeholder = domain.DateLayout
	m.header[editorFieldDate].CharLimit = 10
	m.header[editorFieldDate].Width = 12
	m.header[editorFieldDate].SetValue(m.draft.Date.Format(domain.DateLayout))

	m.header[editorFieldDue] = textinput.New()
	m.header[editorFieldDue].Placeholder = domain.DateLayout
	m.header[editorFieldDue].CharLimit = 10
	m.header[editorFieldDue].Width = 12
	if !m.draft.DueDate.IsZero() {
		m.header[editorFieldDue].SetValue(m.draft.DueDate.Format(domain.DateLayout))
	}

	m.header[editorFieldTax] = textinput.New()
	m.header[editorFieldTax].Placeholder = "10"
	m.header[editorFieldTax].CharLimit = 8
	m.header[editorFieldTax].Width = 8
	m.header[editorFieldTax].SetValue(formatNumber(m.draft.TaxRate))

	m.header[editorFieldNotes] = textinput.New()
	m.header[editorFieldNotes].Placeholder = "Payment terms, thank-you note..."
	m.header[editorFieldNotes].CharLimit = 500
	m.header[editorFieldNotes].Width = 50

	m.rows = nil
	for _, it := range m.draft.Items {
		m.rows = append(m.rows, newItemRow(it))
	}
	m.setFocus(editorFieldClient)
}

func newItemRow(it domain.LineItem) itemRow {
	r := itemRow{id: it.ID}

	r.desc = textinput.New()
	r.desc.Placeholder = "Description"
	r.desc.CharLimit = 200
	r.desc.Width = 30
	r.desc.SetValue(it.Description)

	r.qty = textinput.New()
	r.qty.Placeholder = "1"
	r.qty.CharLimit = 12
	r.qty.Width = 6
	r.qty.SetValue(formatNumber(it.Quantity))

	r.price = textinput.New()
	r.price.Placeholder = "0"
	r.price.CharLimit = 14
	r.price.Width = 10
	r.price.SetValue(formatNumber(it.Price))
	return r
}

func (m *EditorModel) fieldCount() int {
	return editorFieldCount + len(m.rows)*itemColCount
}

// input returns the text input at focus index i, or nil for the client
// and status pickers.
func (m *EditorModel) input(i int) *textinput.Model {
	if i < editorFieldCount {
		if i == editorFieldClient || i == editorFieldStatus {
			return nil
		}
		return &m.header[i]
	}
	row := &m.rows[(i-editorFieldCount)/itemColCount]
	switch (i - editorFieldCount) % itemColCount {
	case itemColDesc:
		return &row.desc
	case itemColQty:
		return &row.qty
	default:
		return &row.price
	}
}

// focusedRow returns the index of the item row holding focus, or -1.
func (m *EditorModel) focusedRow() int {
	if m.focus < editorFieldCount {
		return -1
	}
	return (m.focus - editorFieldCount) / itemColCount
}

func (m *EditorModel) setFocus(i int) tea.Cmd {
	if n := m.fieldCount(); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	for j := editorFieldDate; j < m.fieldCount(); j++ {
		if in := m.input(j); in != nil {
			in.Blur()
		}
	}
	m.focus = i
	if in := m.input(i); in != nil {
		return in.Focus()
	}
	return nil
}

// sync copies form values into the draft so totals stay live.
func (m *EditorModel) sync() {
	if t, err := domain.ParseDate(m.header[editorFieldDate].Value()); err == nil {
		m.draft.Date = t
	}
	if v := strings.TrimSpace(m.header[editorFieldDue].Value()); v == "" {
		m.draft.DueDate = time.Time{}
	} else if t, err := domain.ParseDate(v); err == nil {
		m.draft.DueDate = t
	}
	m.draft.TaxRate = parseAmount(m.header[editorFieldTax].Value())
	m.draft.Notes = strings.TrimSpace(m.header[editorFieldNotes].Value())

	for _, r := range m.rows {
		desc, qty, price := r.desc.Value(), parseAmount(r.qty.Value()), parseAmount(r.price.Value())
		m.draft.UpdateItem(r.id, func(it *domain.LineItem) {
			it.Description = desc
			it.Quantity = qty
			it.Price = price
		})
	}
}

// checkDates reports a date field that does not parse. sync leaves the
// previous value in the draft in that case, so it must not be saved.
func (m *EditorModel) checkDates() error {
	if _, err := domain.ParseDate(m.header[editorFieldDate].Value()); err != nil {
		return domain.NewValidationError("date", "use YYYY-MM-DD")
	}
	if v := strings.TrimSpace(m.header[editorFieldDue].Value()); v != "" {
		if _, err := domain.ParseDate(v); err != nil {
			return domain.NewValidationError("due_date", "use YYYY-MM-DD")
		}
	}
	return nil
}

func (m *EditorModel) clientIndex() int {
	for i, c := range m.clients {
		if c.ID == m.draft.ClientID {
			return i
		}
	}
	return -1
}

func (m *EditorModel) cycleClient(delta int) {
	if len(m.clients) == 0 {
		return
	}
	i := m.clientIndex() + delta
	n := len(m.clients)
	m.draft.ClientID = m.clients[((i%n)+n)%n].ID
}

func (m *EditorModel) cycleStatus(delta int) {
	steps := delta
	if steps < 0 {
		steps = len(domain.Statuses()) - 1
	}
	for ; steps > 0; steps-- {
		m.draft.Status = m.draft.Status.Next()
	}
}

func (m *EditorModel) addItem() tea.Cmd {
	m.rows = append(m.rows, newItemRow(m.draft.AddItem()))
	return m.setFocus(editorFieldCount + (len(m.rows)-1)*itemColCount)
}

func (m *EditorModel) removeFocusedItem() tea.Cmd {
	i := m.focusedRow()
	if i < 0 {
		return nil
	}
	m.draft.RemoveItem(m.rows[i].id)
	m.rows = append(m.rows[:i:i], m.rows[i+1:]...)
	return m.setFocus(m.focus)
}

func (m *EditorModel) save() tea.Cmd {
	m.sync()
	if err := m.checkDates(); err != nil {
		m.err = err
		return nil
	}

	snapshot := *m.draft
	snapshot.Items = append([]domain.LineItem(nil), m.draft.Items...)
	m.saving = true
	m.err = nil

	return func() tea.Msg {
		inv, err := m.app.InvoiceService.Save(context.Background(), &snapshot)
		return editorSavedMsg{invoice: inv, err: err}
	}
}

func (m *EditorModel) generate() tea.Cmd {
	text := strings.TrimSpace(m.prompt.Value())
	if m.generating || text == "" {
		return nil
	}

	m.seq++
	seq := m.seq
	ctx, cancel := m.app.AIContext(context.Background())
	m.cancel = cancel
	m.generating = true
	m.aiErr = ""

	return func() tea.Msg {
		defer cancel()
		items, err := m.app.InvoiceService.GenerateItems(ctx, text)
		return itemsGeneratedMsg{seq: seq, items: items, err: err}
	}
}

// abandonGenerate cancels the in-flight extraction and ignores its reply.
func (m *EditorModel) abandonGenerate() {
	m.seq++
	m.generating = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// Leave abandons any extraction still running.
func (m *EditorModel) Leave() {
	m.abandonGenerate()
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case editorDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.draft = msg.draft
		m.clients = msg.clients
		if m.preset != "" {
			m.draft.ClientID = m.preset
		}
		m.initForm()
		return m, nil

	case itemsGeneratedMsg:
		if !m.generating || msg.seq != m.seq {
			return m, nil
		}
		m.generating = false
		m.cancel = nil
		if msg.err != nil {
			if errors.Is(msg.err, ai.ErrNotConfigured) {
				m.aiErr = "AI is not configured. Run 'invoicer key set' and try again."
			} else {
				m.aiErr = generateFailedText
			}
			return m, nil
		}
		m.draft.AppendItems(msg.items)
		for _, it := range msg.items {
			m.rows = append(m.rows, newItemRow(it))
		}
		m.mode = editorModeForm
		m.prompt.Reset()
		m.prompt.Blur()
		if len(msg.items) == 0 {
			m.aiErr = ""
			return m, func() tea.Msg { return StatusMsg{Text: "No line items found in that description."} }
		}
		return m, m.setFocus(m.focus)

	case editorSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		text := fmt.Sprintf("Invoice %s created for %s", msg.invoice.ID, msg.invoice.ClientName)
		return m, tea.Batch(
			func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} },
			func() tea.Msg { return StatusMsg{Text: text} },
		)

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Back) && m.mode == editorModeForm {
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} }
		}
		if m.loading || m.saving || m.draft == nil {
			return m, nil
		}
		if m.mode == editorModeAI {
			return m.updateAI(msg)
		}
		return m.updateForm(msg)
	}

	if m.mode == editorModeAI {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.draft != nil {
		if in := m.input(m.focus); in != nil {
			var cmd tea.Cmd
			*in, cmd = in.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *EditorModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Save):
		return m, m.save()
	case key.Matches(msg, DefaultKeyMap.Generate):
		m.mode = editorModeAI
		m.aiErr = ""
		return m, m.prompt.Focus()
	case key.Matches(msg, DefaultKeyMap.AddItem):
		return m, m.addItem()
	case key.Matches(msg, DefaultKeyMap.DelItem):
		return m, m.removeFocusedItem()
	case key.Matches(msg, DefaultKeyMap.NextField):
		return m, m.setFocus((m.focus + 1) % m.fieldCount())
	case key.Matches(msg, DefaultKeyMap.PrevField):
		return m, m.setFocus((m.focus - 1 + m.fieldCount()) % m.fieldCount())
	}

	switch m.focus {
	case editorFieldClient, editorFieldStatus:
		delta := 0
		switch msg.String() {
		case "left", "h":
			delta = -1
		case "right", "l", " ", "enter":
			delta = 1
		}
		if delta != 0 {
			if m.focus == editorFieldClient {
				m.cycleClient(delta)
			} else {
				m.cycleStatus(delta)
			}
		}
		return m, nil
	}

	in := m.input(m.focus)
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	m.sync()
	return m, cmd
}

func (m *EditorModel) updateAI(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.abandonGenerate()
		m.aiErr = ""
		m.mode = editorModeForm
		m.prompt.Blur()
		return m, m.setFocus(m.focus)
	case msg.String() == "enter", key.Matches(msg, DefaultKeyMap.Retry):
		return m, m.generate()
	}

	if m.generating {
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *EditorModel) View() string {
	if m.loading {
		return "Loading editor..."
	}
	if m.draft == nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New Invoice"))
	b.WriteString("\n\n")

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderItems())
	b.WriteString("\n")
	b.WriteString(m.renderTotals())

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %v", m.err)))
		b.WriteString("\n")
	}

	if m.mode == editorModeAI {
		b.WriteString("\n")
		b.WriteString(m.renderAIModal())
		return b.String()
	}

	b.WriteString("\n")
	if m.saving {
		b.WriteString(subtitleStyle.Render("Saving..."))
	} else {
		b.WriteString(helpStyle.Render("tab: next  ←/→: change  ctrl+n: add item  ctrl+d: remove item  ctrl+g: AI items  ctrl+s: save  esc: cancel"))
	}
	return b.String()
}

func (m *EditorModel) label(i int, text string) string {
	style := lipgloss.NewStyle().Width(10)
	if m.focus == i {
		return style.Foreground(accentColor).Bold(true).Render(text)
	}
	return style.Render(text)
}

func (m *EditorModel) renderHeader() string {
	var b strings.Builder

	clientName := "(no clients)"
	if i := m.clientIndex(); i >= 0 {
		clientName = m.clients[i].Name
	} else if len(m.clients) > 0 {
		clientName = "(select a client)"
	}
	picker := func(focused bool, value string) string {
		if focused {
			return selectedStyle.Render("< " + value + " >")
		}
		return "  " + value
	}

	fmt.Fprintf(&b, "  %s %s\n", m.label(editorFieldClient, "Client"), picker(m.focus == editorFieldClient, clientName))
	fmt.Fprintf(&b, "  %s %s\n", m.label(editorFieldStatus, "Status"), picker(m.focus == editorFieldStatus, statusBadge(m.draft.Status, 0)))
	fmt.Fprintf(&b, "  %s %s\n", m.label(editorFieldDate, "Date"), m.header[editorFieldDate].View())
	fmt.Fprintf(&b, "  %s %s\n", m.label(editorFieldDue, "Due"), m.header[editorFieldDue].View())
	fmt.Fprintf(&b, "  %s %s%%\n", m.label(editorFieldTax, "Tax"), m.header[editorFieldTax].View())
	fmt.Fprintf(&b, "  %s %s\n", m.label(editorFieldNotes, "Notes"), m.header[editorFieldNotes].View())
	return b.String()
}

func (m *EditorModel) renderItems() string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("  Line Items"))
	b.WriteString("\n")
	if len(m.rows) == 0 {
		b.WriteString("  No items. Press ctrl+n to add one or ctrl+g to describe the work.\n")
		return b.String()
	}

	focused := m.focusedRow()
	for i, r := range m.rows {
		marker := "  "
		if i == focused {
			marker = selectedStyle.Render(">") + " "
		}
		amount := ""
		for _, it := range m.draft.Items {
			if it.ID == r.id {
				amount = finance.FormatMoney(finance.LineItemTotal(it))
				break
			}
		}
		fmt.Fprintf(&b, "%s%s  x %s  @ %s  %12s\n", marker, r.desc.View(), r.qty.View(), r.price.View(), amount)
	}
	return b.String()
}

func (m *EditorModel) renderTotals() string {
	t := m.draft.Totals()
	var b strings.Builder
	fmt.Fprintf(&b, "  %-12s %14s\n", "Subtotal", finance.FormatMoney(t.Subtotal))
	fmt.Fprintf(&b, "  %-12s %14s\n", "Tax ("+finance.FormatPercent(m.draft.TaxRate)+")", finance.FormatMoney(t.Tax))
	fmt.Fprintf(&b, "  %-12s %14s\n", "Total", statValueStyle.Render(finance.FormatMoney(t.Total)))
	return b.String()
}

func (m *EditorModel) renderAIModal() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Generate line items"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Describe the work and the AI will draft the items."))
	b.WriteString("\n\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n\n")

	switch {
	case m.generating:
		b.WriteString(subtitleStyle.Render("Generating..."))
	case m.aiErr != "":
		b.WriteString(errorStyle.Render(m.aiErr))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/ctrl+r: retry  esc: dismiss"))
	default:
		b.WriteString(helpStyle.Render("enter: generate  esc: cancel"))
	}
	return boxStyle.Render(b.String())
}
