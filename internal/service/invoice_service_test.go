package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicer/internal/ai"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/service"
)

var fixedNow = time.Date(2023, time.November, 5, 15, 30, 0, 0, time.Local)

type fakeExtractor struct {
	items []ai.ExtractedItem
	err   error
}

func (f *fakeExtractor) ExtractLineItems(ctx context.Context, text string) ([]ai.ExtractedItem, error) {
	return f.items, f.err
}

type sequenceIDs struct{ n int }

func (s *sequenceIDs) NextInvoiceID() string {
	s.n++
	return "inv_test" + string(rune('0'+s.n))
}

func newInvoiceService(t *testing.T, ext service.Extractor) (service.InvoiceService, *repository.Store) {
	t.Helper()
	store := repository.NewSeededStore()
	svc := service.NewInvoiceService(
		store.Invoices(),
		store.Clients(),
		&sequenceIDs{},
		ext,
		service.Defaults{TaxRate: 10, DueDays: 14},
		service.WithClock(func() time.Time { return fixedNow }),
	)
	return svc, store
}

func TestNewDraft_Defaults(t *testing.T) {
	svc, _ := newInvoiceService(t, &fakeExtractor{})

	d, err := svc.NewDraft(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1", d.ClientID, "first client is preselected")
	assert.Equal(t, domain.StatusDraft, d.Status)
	assert.Equal(t, domain.Day(fixedNow), d.Date)
	assert.Equal(t, domain.Day(fixedNow).AddDate(0, 0, 14), d.DueDate)
	assert.Equal(t, 10.0, d.TaxRate)
	assert.Empty(t, d.Items)
}

func TestSave_PrependsAndCopiesClientName(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceService(t, &fakeExtractor{})

	d, err := svc.NewDraft(ctx)
	require.NoError(t, err)
	d.ClientID = "3"
	d.Status = domain.StatusPending
	d.Notes = "Net 14"
	d.AddItem()
	d.Items[0].Description = "Brand workshop"
	d.Items[0].Price = 900

	inv, err := svc.Save(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, "inv_test1", inv.ID)
	assert.Equal(t, "Creative Studio", inv.ClientName)
	assert.Equal(t, domain.StatusPending, inv.Status)
	assert.Equal(t, "Net 14", inv.Notes)

	all, err := store.Invoices().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, inv.ID, all[0].ID)
	assert.Equal(t, 900.0, all[0].Items[0].Price)
}

func TestSave_WithoutClientIsValidationFailure(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceService(t, &fakeExtractor{})

	for _, clientID := range []string{"", "42"} {
		d := service.NewDraft(clientID, fixedNow, service.Defaults{TaxRate: 10, DueDays: 14})

		_, err := svc.Save(ctx, d)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrValidation), "client %q", clientID)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "client", vErr.Field)
	}

	all, _ := store.Invoices().List(ctx)
	assert.Len(t, all, 3, "store is unchanged")
}

func TestSave_RejectsNonFiniteAmounts(t *testing.T) {
	ctx := context.Background()
	svc, store := newInvoiceService(t, &fakeExtractor{})

	d, _ := svc.NewDraft(ctx)
	d.AddItem()
	d.Items[0].Price = math.NaN()

	_, err := svc.Save(ctx, d)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	all, _ := store.Invoices().List(ctx)
	assert.Len(t, all, 3)
}

func TestSave_AcceptsNegativeAmounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceService(t, &fakeExtractor{})

	d, _ := svc.NewDraft(ctx)
	d.AddItem()
	d.Items[0].Description = "Credit"
	d.Items[0].Price = -50

	_, err := svc.Save(ctx, d)
	assert.NoError(t, err)
}

func TestSave_DraftChangesAfterSaveDoNotLeak(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceService(t, &fakeExtractor{})

	d, _ := svc.NewDraft(ctx)
	d.AddItem()
	inv, err := svc.Save(ctx, d)
	require.NoError(t, err)

	d.Items[0].Price = 1e6

	stored, err := svc.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Items[0].Price)
}

func TestGenerateItems(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceService(t, &fakeExtractor{items: []ai.ExtractedItem{
		{Description: "Consultation", Quantity: 5, Price: 200},
		{Description: "Report", Quantity: 1, Price: 0},
	}})

	items, err := svc.GenerateItems(ctx, "5h consult and a report")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, "Consultation", items[0].Description)
}

func TestGenerateItems_FailureReturnsNothing(t *testing.T) {
	cause := &ai.ServiceError{Op: "extract", Err: errors.New("boom")}
	svc, _ := newInvoiceService(t, &fakeExtractor{err: cause})

	items, err := svc.GenerateItems(context.Background(), "anything")
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ai.ErrServiceFailure)
}

func TestListInvoices_Filters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newInvoiceService(t, &fakeExtractor{})

	all, err := svc.ListInvoices(ctx, domain.FacetAll, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := svc.ListInvoices(ctx, domain.FacetFor(domain.StatusPending), "")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "inv_789012", pending[0].ID)

	byName, err := svc.ListInvoices(ctx, domain.FacetAll, "creative")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "inv_345678", byName[0].ID)
}

func TestGetClient(t *testing.T) {
	svc, _ := newInvoiceService(t, &fakeExtractor{})

	c, err := svc.GetClient(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "Global Logistics", c.Name)

	_, err = svc.GetClient(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
