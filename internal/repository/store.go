package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/andy/invoicer/internal/domain"
)

// Store is the in-memory session store. It lives as long as the process and
// is safe for concurrent use. Every read returns copies.
type Store struct {
	mu       sync.RWMutex
	clients  []*domain.Client
	invoices []*domain.Invoice
	logger   *slog.Logger
}

// NewStore creates a store holding copies of clients and invoices. Clients
// that fail validation are skipped.
func NewStore(clients []*domain.Client, invoices []*domain.Invoice) *Store {
	s := &Store{logger: slog.Default()}
	for _, c := range clients {
		if err := c.Validate(); err != nil {
			s.logger.Warn("skipping client", "id", c.ID, "error", err)
			continue
		}
		cc := *c
		s.clients = append(s.clients, &cc)
	}
	for _, inv := range invoices {
		s.invoices = append(s.invoices, inv.Clone())
	}
	return s
}

// NewSeededStore creates a store preloaded with the demo data.
func NewSeededStore() *Store {
	return NewStore(SeedClients(), SeedInvoices())
}

// SetLogger replaces the logger used for mutation traces.
func (s *Store) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Clients returns the client repository view of the store.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{store: s} }

// Invoices returns the invoice repository view of the store.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{store: s} }

// ClientRepo is the in-memory implementation of ClientRepository
type ClientRepo struct {
	store *Store
}

// GetByID retrieves a client by ID
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.clients {
		if c.ID == id {
			cc := *c
			return &cc, nil
		}
	}
	return nil, fmt.Errorf("client %q: %w", id, ErrNotFound)
}

// List returns all clients in seed order
func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Client, 0, len(r.store.clients))
	for _, c := range r.store.clients {
		cc := *c
		out = append(out, &cc)
	}
	return out, nil
}

// InvoiceRepo is the in-memory implementation of InvoiceRepository
type InvoiceRepo struct {
	store *Store
}

// Create prepends a copy of invoice to the collection
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.invoices {
		if existing.ID == invoice.ID {
			return fmt.Errorf("invoice %q: %w", invoice.ID, ErrDuplicateID)
		}
	}

	invoices := make([]*domain.Invoice, 0, len(r.store.invoices)+1)
	invoices = append(invoices, invoice.Clone())
	r.store.invoices = append(invoices, r.store.invoices...)

	r.store.logger.Debug("invoice created", "id", invoice.ID, "client", invoice.ClientID, "items", len(invoice.Items))
	return nil
}

// GetByID retrieves an invoice by ID
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, inv := range r.store.invoices {
		if inv.ID == id {
			return inv.Clone(), nil
		}
	}
	return nil, fmt.Errorf("invoice %q: %w", id, ErrNotFound)
}

// List returns all invoices, newest first
func (r *InvoiceRepo) List(ctx context.Context) ([]*domain.Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		out = append(out, inv.Clone())
	}
	return out, nil
}

var (
	_ ClientRepository  = (*ClientRepo)(nil)
	_ InvoiceRepository = (*InvoiceRepo)(nil)
)
