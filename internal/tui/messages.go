package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// NewInvoiceMsg opens a fresh editor, optionally preselecting a client
type NewInvoiceMsg struct {
	ClientID string
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// StatusMsg shows a one-line notice under the current screen
type StatusMsg struct {
	Text string
}
