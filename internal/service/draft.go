package service

import (
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/repository"
)

// Draft is an invoice being edited. It has no ID and is not stored until it
// is saved through InvoiceService.Save.
type Draft struct {
	ClientID string
	Status   domain.Status
	Date     time.Time
	DueDate  time.Time
	Items    []domain.LineItem
	Notes    string
	TaxRate  float64
}

// Defaults are the editor's starting values for a new invoice.
type Defaults struct {
	TaxRate float64
	DueDays int
}

// NewDraft returns a Draft issued on now with the given defaults.
func NewDraft(clientID string, now time.Time, d Defaults) *Draft {
	date := domain.Day(now)
	return &Draft{
		ClientID: clientID,
		Status:   domain.StatusDraft,
		Date:     date,
		DueDate:  date.AddDate(0, 0, d.DueDays),
		Items:    make([]domain.LineItem, 0),
		TaxRate:  d.TaxRate,
	}
}

// AddItem appends a blank item (quantity 1, price 0) and returns it.
func (d *Draft) AddItem() domain.LineItem {
	item := domain.NewLineItem(repository.NewLineItemID())
	d.Items = append(d.Items, item)
	return item
}

// AppendItems adds items to the end of the list in order.
func (d *Draft) AppendItems(items []domain.LineItem) {
	d.Items = append(d.Items, items...)
}

// RemoveItem deletes the item with id. It reports whether one was removed.
func (d *Draft) RemoveItem(id string) bool {
	for i, it := range d.Items {
		if it.ID == id {
			d.Items = append(d.Items[:i:i], d.Items[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateItem applies fn to the item with id. It reports whether one matched.
func (d *Draft) UpdateItem(id string, fn func(*domain.LineItem)) bool {
	for i := range d.Items {
		if d.Items[i].ID == id {
			fn(&d.Items[i])
			return true
		}
	}
	return false
}

// Totals computes the draft's live subtotal, tax and total.
func (d *Draft) Totals() finance.Totals {
	return finance.ForInvoice(&domain.Invoice{Items: d.Items, TaxRate: d.TaxRate})
}
