package domain

import (
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for invoice dates.
const DateLayout = "2006-01-02"

// LineItem is a single billable unit owned by exactly one invoice.
type LineItem struct {
	ID          string
	Description string
	Quantity    float64
	Price       float64 // unit price, currency-agnostic
}

// NewLineItem returns a blank item with the editor defaults (quantity 1, price 0).
func NewLineItem(id string) LineItem {
	return LineItem{ID: id, Quantity: 1}
}

// Finite reports whether both quantity and price are finite numbers.
func (li LineItem) Finite() bool {
	return !math.IsNaN(li.Quantity) && !math.IsInf(li.Quantity, 0) &&
		!math.IsNaN(li.Price) && !math.IsInf(li.Price, 0)
}

// Invoice is created fully formed by the editor and never changes afterwards.
type Invoice struct {
	ID         string
	ClientID   string
	ClientName string // copied from the client at creation, not kept in sync
	Status     Status
	Date       time.Time
	DueDate    time.Time
	Items      []LineItem
	Notes      string
	TaxRate    float64 // percentage, 10 means 10%
}

// NewInvoice creates a draft invoice for client, issued on date.
func NewInvoice(id string, client *Client, date, dueDate time.Time, taxRate float64) *Invoice {
	inv := &Invoice{
		ID:      id,
		Status:  StatusDraft,
		Date:    Day(date),
		DueDate: Day(dueDate),
		Items:   make([]LineItem, 0),
		TaxRate: taxRate,
	}
	if client != nil {
		inv.ClientID = client.ID
		inv.ClientName = client.Name
	}
	return inv
}

// Clone returns a deep copy, so callers can never alias another invoice's items.
func (i *Invoice) Clone() *Invoice {
	c := *i
	c.Items = make([]LineItem, len(i.Items))
	copy(c.Items, i.Items)
	return &c
}

// Validate returns an error if the invoice cannot be saved
func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return NewValidationError("id", "invoice id is required")
	}
	if strings.TrimSpace(i.ClientID) == "" {
		return NewValidationError("client", "please select a client")
	}
	if !i.Status.Valid() {
		return NewValidationError("status", "unknown status "+string(i.Status))
	}
	if i.Date.IsZero() {
		return NewValidationError("date", "invoice date is required")
	}
	if !i.DueDate.IsZero() && i.DueDate.Before(i.Date) {
		return NewValidationError("due_date", "due date must not be before the invoice date")
	}
	if math.IsNaN(i.TaxRate) || math.IsInf(i.TaxRate, 0) {
		return NewValidationError("tax_rate", ErrInvalidAmount.Error())
	}
	return nil
}

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}
