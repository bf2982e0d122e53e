package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	// Navigation
	Dashboard  key.Binding
	Invoices   key.Binding
	NewInvoice key.Binding
	Clients    key.Binding
	Settings   key.Binding

	// Actions
	Select    key.Binding
	Refresh   key.Binding
	Filter    key.Binding
	Search    key.Binding
	ExportPDF key.Binding
	ExportTxt key.Binding

	// Editor
	NextField key.Binding
	PrevField key.Binding
	AddItem   key.Binding
	DelItem   key.Binding
	Generate  key.Binding
	Save      key.Binding
	Retry     key.Binding

	// Movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Dashboard:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dashboard")),
	Invoices:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "invoices")),
	NewInvoice: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new invoice")),
	Clients:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clients")),
	Settings:   key.NewBinding(key.WithKeys(","), key.WithHelp(",", "settings")),
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh insights")),
	Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	ExportPDF:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export pdf")),
	ExportTxt:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "export txt")),
	NextField:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	AddItem:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add item")),
	DelItem:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove item")),
	Generate:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "AI items")),
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Retry:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
}
