package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/service"
)

func TestDraft_ItemEditing(t *testing.T) {
	d := service.NewDraft("1", fixedNow, service.Defaults{TaxRate: 10, DueDays: 14})

	a := d.AddItem()
	b := d.AddItem()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1.0, a.Quantity)
	assert.Zero(t, a.Price)
	assert.Empty(t, a.Description)

	ok := d.UpdateItem(b.ID, func(li *domain.LineItem) {
		li.Description = "Design"
		li.Quantity = 10
		li.Price = 120
	})
	require.True(t, ok)
	assert.False(t, d.UpdateItem("missing", func(*domain.LineItem) {}))

	totals := d.Totals()
	assert.InDelta(t, 1200, totals.Subtotal, 1e-9)
	assert.InDelta(t, 120, totals.Tax, 1e-9)
	assert.InDelta(t, 1320, totals.Total, 1e-9)

	require.True(t, d.RemoveItem(a.ID))
	assert.False(t, d.RemoveItem(a.ID))
	require.Len(t, d.Items, 1)
	assert.Equal(t, "Design", d.Items[0].Description)
}

func TestDraft_AppendItemsKeepsOrder(t *testing.T) {
	d := service.NewDraft("1", fixedNow, service.Defaults{})
	first := d.AddItem()

	d.AppendItems([]domain.LineItem{{ID: "x", Description: "X"}, {ID: "y", Description: "Y"}})

	require.Len(t, d.Items, 3)
	assert.Equal(t, []string{first.ID, "x", "y"}, []string{d.Items[0].ID, d.Items[1].ID, d.Items[2].ID})
}

func TestDraft_RemoveDoesNotAliasOldSlice(t *testing.T) {
	d := service.NewDraft("1", fixedNow, service.Defaults{})
	d.AppendItems([]domain.LineItem{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	before := d.Items

	d.RemoveItem("a")

	assert.Equal(t, "a", before[0].ID)
	assert.Equal(t, []string{"b", "c"}, []string{d.Items[0].ID, d.Items[1].ID})
}
