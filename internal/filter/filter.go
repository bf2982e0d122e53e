// Package filter narrows invoice lists for display.
package filter

import (
	"strings"

	"github.com/andy/invoicer/internal/domain"
)

// Invoices returns, in input order, the invoices that pass both the status
// facet and the text query.
//
// The query matches the cached client name case-insensitively, or the invoice
// ID case-sensitively; an empty query matches everything. An empty result is a
// normal outcome. Callers that need to tell "nothing matched" from "nothing
// loaded" compare against len(invoices) themselves.
func Invoices(invoices []*domain.Invoice, facet domain.StatusFacet, query string) []*domain.Invoice {
	out := make([]*domain.Invoice, 0, len(invoices))
	needle := strings.ToLower(query)
	for _, inv := range invoices {
		if inv == nil {
			continue
		}
		if !facet.Matches(inv.Status) {
			continue
		}
		if !matchesQuery(inv, query, needle) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

func matchesQuery(inv *domain.Invoice, query, lowered string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(inv.ClientName), lowered) ||
		strings.Contains(inv.ID, query)
}
