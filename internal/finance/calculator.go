// Package finance derives money figures from invoices.
//
// Every function here is pure: no input is mutated and the same input always
// gives the same output. Non-finite quantities or prices are not rejected; a
// NaN simply propagates into every figure built from it. Callers that need a
// hard failure use ValidateAmounts before saving.
package finance

import (
	"fmt"

	"github.com/andy/invoicer/internal/domain"
)

// LineItemTotal returns quantity * price with no rounding.
func LineItemTotal(item domain.LineItem) float64 {
	return item.Quantity * item.Price
}

// Subtotal is the sum of the line totals, before tax.
func Subtotal(inv *domain.Invoice) float64 {
	if inv == nil {
		return 0
	}
	sum := 0.0
	for _, item := range inv.Items {
		sum += LineItemTotal(item)
	}
	return sum
}

// Tax applies the invoice's percentage rate to its subtotal.
func Tax(inv *domain.Invoice) float64 {
	if inv == nil {
		return 0
	}
	return Subtotal(inv) * inv.TaxRate / 100
}

// Total is Subtotal + Tax.
func Total(inv *domain.Invoice) float64 {
	return Subtotal(inv) + Tax(inv)
}

// Totals carries the three per-invoice figures together.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ForInvoice computes subtotal, tax and total in one pass.
func ForInvoice(inv *domain.Invoice) Totals {
	sub := Subtotal(inv)
	tax := 0.0
	if inv != nil {
		tax = sub * inv.TaxRate / 100
	}
	return Totals{Subtotal: sub, Tax: tax, Total: sub + tax}
}

// AggregateByStatus sums the pre-tax subtotal of every invoice with the given
// status. Dashboard figures (revenue, pending, overdue) use this, while list
// rows show the post-tax Total; see AggregateTotalByStatus for the post-tax
// form.
func AggregateByStatus(invoices []*domain.Invoice, status domain.Status) float64 {
	sum := 0.0
	for _, inv := range invoices {
		if inv != nil && inv.Status == status {
			sum += Subtotal(inv)
		}
	}
	return sum
}

// AggregateTotalByStatus is AggregateByStatus including tax.
func AggregateTotalByStatus(invoices []*domain.Invoice, status domain.Status) float64 {
	sum := 0.0
	for _, inv := range invoices {
		if inv != nil && inv.Status == status {
			sum += Total(inv)
		}
	}
	return sum
}

// ValidateAmounts rejects any item whose quantity or price is NaN or infinite.
// Negative values pass: they give negative totals (credit lines).
func ValidateAmounts(items []domain.LineItem) error {
	for i, item := range items {
		if !item.Finite() {
			return fmt.Errorf("%w: line %d (%q)", domain.ErrInvalidAmount, i+1, item.Description)
		}
	}
	return nil
}
