package finance

import (
	"time"

	"github.com/andy/invoicer/internal/domain"
)

// Stats is the dashboard summary. Money figures are pre-tax.
type Stats struct {
	TotalRevenue float64 // Paid
	Pending      float64
	Overdue      float64
	PaidCount    int
	InvoiceCount int
}

// Summarize builds dashboard stats from the whole collection.
func Summarize(invoices []*domain.Invoice) Stats {
	s := Stats{
		TotalRevenue: AggregateByStatus(invoices, domain.StatusPaid),
		Pending:      AggregateByStatus(invoices, domain.StatusPending),
		Overdue:      AggregateByStatus(invoices, domain.StatusOverdue),
		InvoiceCount: len(invoices),
	}
	for _, inv := range invoices {
		if inv != nil && inv.Status == domain.StatusPaid {
			s.PaidCount++
		}
	}
	return s
}

// MonthRevenue is one bar of the revenue trend.
type MonthRevenue struct {
	Month  time.Time // first day of the month
	Amount float64
}

// Label returns the short month name ("Jan").
func (m MonthRevenue) Label() string {
	return m.Month.Format("Jan")
}

// RevenueByMonth buckets paid pre-tax subtotals by issue month for the
// `months` months ending with end's month, oldest first. Invoices outside the
// window are ignored.
func RevenueByMonth(invoices []*domain.Invoice, end time.Time, months int) []MonthRevenue {
	if months <= 0 {
		return nil
	}
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	first := last.AddDate(0, -(months - 1), 0)

	out := make([]MonthRevenue, months)
	for i := range out {
		out[i].Month = first.AddDate(0, i, 0)
	}

	for _, inv := range invoices {
		if inv == nil || inv.Status != domain.StatusPaid {
			continue
		}
		d := inv.Date.In(end.Location())
		idx := (d.Year()-first.Year())*12 + int(d.Month()) - int(first.Month())
		if idx < 0 || idx >= months {
			continue
		}
		out[idx].Amount += Subtotal(inv)
	}
	return out
}

// IsPastDue reports a Pending invoice whose due date is before now's day.
// It is a display hint only; status is never changed automatically.
func IsPastDue(inv *domain.Invoice, now time.Time) bool {
	if inv == nil || inv.Status != domain.StatusPending || inv.DueDate.IsZero() {
		return false
	}
	return inv.DueDate.Before(domain.Day(now))
}
