package repository

import (
	"context"
	"errors"

	"github.com/andy/invoicer/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup by ID has no match.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when an invoice ID is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// ClientRepository reads the seeded client list
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)
}

// InvoiceRepository manages the session's invoices, newest first
type InvoiceRepository interface {
	// Create prepends invoice to the collection.
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context) ([]*domain.Invoice, error)
}
