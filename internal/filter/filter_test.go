package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/filter"
)

func sampleInvoices() []*domain.Invoice {
	return []*domain.Invoice{
		{ID: "inv_123456", ClientName: "TechStart Inc", Status: domain.StatusPaid},
		{ID: "inv_789012", ClientName: "Global Logistics", Status: domain.StatusPending},
		{ID: "inv_345678", ClientName: "Creative Studio", Status: domain.StatusOverdue},
		{ID: "INV_999", ClientName: "Tech Partners", Status: domain.StatusPending},
	}
}

func ids(invoices []*domain.Invoice) []string {
	out := make([]string, len(invoices))
	for i, inv := range invoices {
		out[i] = inv.ID
	}
	return out
}

func TestInvoices_AllAndEmptyQueryIsIdentity(t *testing.T) {
	in := sampleInvoices()
	out := filter.Invoices(in, domain.FacetAll, "")
	assert.Equal(t, in, out)
}

func TestInvoices(t *testing.T) {
	tests := []struct {
		name  string
		facet domain.StatusFacet
		query string
		want  []string
	}{
		{"status only", domain.FacetFor(domain.StatusPending), "", []string{"inv_789012", "INV_999"}},
		{"client name case-insensitive", domain.FacetAll, "tech", []string{"inv_123456", "INV_999"}},
		{"client name upper query", domain.FacetAll, "GLOBAL", []string{"inv_789012"}},
		{"id substring", domain.FacetAll, "3456", []string{"inv_123456", "inv_345678"}},
		{"id is case-sensitive", domain.FacetAll, "INV_1", nil},
		{"id exact case", domain.FacetAll, "INV_9", []string{"INV_999"}},
		{"facet AND query", domain.FacetFor(domain.StatusPending), "tech", []string{"INV_999"}},
		{"no match", domain.FacetFor(domain.StatusDraft), "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filter.Invoices(sampleInvoices(), tt.facet, tt.query)
			if tt.want == nil {
				assert.Empty(t, got)
				assert.NotNil(t, got, "empty result is a value, not nil")
				return
			}
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestInvoices_SubsetAndIdempotent(t *testing.T) {
	in := sampleInvoices()
	known := map[string]bool{}
	for _, inv := range in {
		known[inv.ID] = true
	}

	facets := []domain.StatusFacet{domain.FacetAll}
	for _, s := range domain.Statuses() {
		facets = append(facets, domain.FacetFor(s))
	}
	queries := []string{"", "inv", "tech", "o", "zzz", "789"}

	for _, f := range facets {
		for _, q := range queries {
			once := filter.Invoices(in, f, q)
			for _, inv := range once {
				assert.True(t, known[inv.ID], "%s not in input", inv.ID)
			}
			twice := filter.Invoices(once, f, q)
			assert.Equal(t, ids(once), ids(twice), "facet=%s query=%q", f, q)
		}
	}
}

func TestInvoices_PreservesOrder(t *testing.T) {
	in := sampleInvoices()
	in[0], in[3] = in[3], in[0]

	got := filter.Invoices(in, domain.FacetAll, "tech")
	assert.Equal(t, []string{"INV_999", "inv_123456"}, ids(got))
}

func TestInvoices_SkipsNil(t *testing.T) {
	in := append(sampleInvoices(), nil)
	assert.Len(t, filter.Invoices(in, domain.FacetAll, ""), 4)
}
