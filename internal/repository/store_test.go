package repository_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
)

func newInvoice(id string) *domain.Invoice {
	return &domain.Invoice{
		ID:         id,
		ClientID:   "1",
		ClientName: "TechStart Inc",
		Status:     domain.StatusDraft,
		Date:       time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local),
		DueDate:    time.Date(2024, 1, 16, 0, 0, 0, 0, time.Local),
		TaxRate:    10,
		Items:      []domain.LineItem{{ID: "a", Description: "Work", Quantity: 1, Price: 10}},
	}
}

func TestSeededStore(t *testing.T) {
	ctx := context.Background()
	s := repository.NewSeededStore()

	clients, err := s.Clients().List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "TechStart Inc", clients[0].Name)

	invoices, err := s.Invoices().List(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 3)
	assert.Equal(t, []string{"inv_123456", "inv_789012", "inv_345678"},
		[]string{invoices[0].ID, invoices[1].ID, invoices[2].ID})

	for _, inv := range invoices {
		_, err := s.Clients().GetByID(ctx, inv.ClientID)
		assert.NoError(t, err, "seed invoice %s references a missing client", inv.ID)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	s := repository.NewSeededStore()

	_, err := s.Clients().GetByID(ctx, "99")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = s.Invoices().GetByID(ctx, "inv_nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_Prepends(t *testing.T) {
	ctx := context.Background()
	s := repository.NewSeededStore()

	require.NoError(t, s.Invoices().Create(ctx, newInvoice("inv_new")))

	invoices, err := s.Invoices().List(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 4)
	assert.Equal(t, "inv_new", invoices[0].ID)
}

func TestCreate_RejectsInvalidAndDuplicate(t *testing.T) {
	ctx := context.Background()
	s := repository.NewSeededStore()

	bad := newInvoice("inv_bad")
	bad.ClientID = ""
	assert.ErrorIs(t, s.Invoices().Create(ctx, bad), domain.ErrValidation)

	assert.ErrorIs(t, s.Invoices().Create(ctx, newInvoice("inv_123456")), repository.ErrDuplicateID)

	invoices, _ := s.Invoices().List(ctx)
	assert.Len(t, invoices, 3)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := repository.NewSeededStore()

	inv, err := s.Invoices().GetByID(ctx, "inv_123456")
	require.NoError(t, err)
	inv.Items[0].Price = 0
	inv.Status = domain.StatusDraft

	again, err := s.Invoices().GetByID(ctx, "inv_123456")
	require.NoError(t, err)
	assert.Equal(t, 100.0, again.Items[0].Price)
	assert.Equal(t, domain.StatusPaid, again.Status)

	created := newInvoice("inv_mine")
	require.NoError(t, s.Invoices().Create(ctx, created))
	created.Items[0].Description = "changed after save"

	stored, err := s.Invoices().GetByID(ctx, "inv_mine")
	require.NoError(t, err)
	assert.Equal(t, "Work", stored.Items[0].Description)
}

func TestConcurrentCreateAndList(t *testing.T) {
	ctx := context.Background()
	s := repository.NewStore(repository.SeedClients(), nil)
	gen, err := repository.NewIDGenerator("inv_", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Invoices().Create(ctx, newInvoice(gen.NextInvoiceID())))
		}()
		go func() {
			defer wg.Done()
			_, err := s.Invoices().List(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	invoices, err := s.Invoices().List(ctx)
	require.NoError(t, err)
	assert.Len(t, invoices, 20)
}

func TestIDGenerator(t *testing.T) {
	gen, err := repository.NewIDGenerator("inv_", 0)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := gen.NextInvoiceID()
		assert.True(t, strings.HasPrefix(id, "inv_"))
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}

	_, err = repository.NewIDGenerator("inv_", 5000)
	assert.Error(t, err)

	assert.NotEqual(t, repository.NewLineItemID(), repository.NewLineItemID())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repository.NewSeededStore().Invoices().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStore_SkipsInvalidClients(t *testing.T) {
	ctx := context.Background()
	s := repository.NewStore([]*domain.Client{
		domain.NewClient(" 7 ", " Acme ", "a@acme.test"),
		domain.NewClient("", "No ID", ""),
		domain.NewClient("8", "  ", ""),
	}, nil)

	clients, err := s.Clients().List(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "7", clients[0].ID)
	assert.Equal(t, "Acme", clients[0].Name)
}
