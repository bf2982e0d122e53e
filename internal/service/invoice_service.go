package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/andy/invoicer/internal/ai"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/filter"
	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/repository"
)

// ErrClientNotFound is returned when an invoice names a client that does not exist.
var ErrClientNotFound = errors.New("client not found")

// Extractor turns a free-text description into line items
type Extractor interface {
	ExtractLineItems(ctx context.Context, text string) ([]ai.ExtractedItem, error)
}

// IDSource issues invoice IDs
type IDSource interface {
	NextInvoiceID() string
}

// InvoiceService manages drafts, saving and listing invoices
type InvoiceService interface {
	// NewDraft starts an invoice for the first client with today's defaults
	NewDraft(ctx context.Context) (*Draft, error)

	// Save validates the draft and prepends it to the store as a new invoice
	Save(ctx context.Context, draft *Draft) (*domain.Invoice, error)

	// GenerateItems extracts line items from text, each with a fresh ID
	GenerateItems(ctx context.Context, text string) ([]domain.LineItem, error)

	// GetInvoice retrieves an invoice by ID
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)

	// ListInvoices lists invoices matching the facet and query, newest first
	ListInvoices(ctx context.Context, facet domain.StatusFacet, query string) ([]*domain.Invoice, error)

	// ListClients lists the selectable clients
	ListClients(ctx context.Context) ([]*domain.Client, error)

	// GetClient retrieves a client by ID
	GetClient(ctx context.Context, id string) (*domain.Client, error)

	// SetDefaults replaces the defaults used for new drafts
	SetDefaults(d Defaults)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	ids         IDSource
	extractor   Extractor
	clock       Clock
	logger      *slog.Logger

	mu       sync.RWMutex
	defaults Defaults
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	ids IDSource,
	extractor Extractor,
	defaults Defaults,
	opts ...Option,
) InvoiceService {
	o := applyOptions(opts)
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		ids:         ids,
		extractor:   extractor,
		defaults:    defaults,
		clock:       o.clock,
		logger:      o.logger,
	}
}

func (s *invoiceService) NewDraft(ctx context.Context) (*Draft, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var clientID string
	if len(clients) > 0 {
		clientID = clients[0].ID
	}
	s.mu.RLock()
	d := s.defaults
	s.mu.RUnlock()
	return NewDraft(clientID, s.clock(), d), nil
}

func (s *invoiceService) Save(ctx context.Context, draft *Draft) (*domain.Invoice, error) {
	if draft == nil {
		return nil, domain.NewValidationError("invoice", "nothing to save")
	}
	if draft.ClientID == "" {
		return nil, domain.NewValidationError("client", "please select a client")
	}

	client, err := s.clientRepo.GetByID(ctx, draft.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.NewValidationError("client", "please select a client"), ErrClientNotFound)
		}
		return nil, err
	}

	if err := finance.ValidateAmounts(draft.Items); err != nil {
		return nil, err
	}

	invoice := domain.NewInvoice(s.ids.NextInvoiceID(), client, draft.Date, draft.DueDate, draft.TaxRate)
	invoice.Status = draft.Status
	invoice.Notes = draft.Notes
	invoice.Items = append(invoice.Items, draft.Items...)

	if err := invoice.Validate(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.logger.Debug("invoice saved", "id", invoice.ID, "total", finance.Total(invoice))
	return invoice, nil
}

func (s *invoiceService) GenerateItems(ctx context.Context, text string) ([]domain.LineItem, error) {
	extracted, err := s.extractor.ExtractLineItems(ctx, text)
	if err != nil {
		return nil, err
	}
	return ai.ToLineItems(extracted), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *invoiceService) ListInvoices(ctx context.Context, facet domain.StatusFacet, query string) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Invoices(invoices, facet, query), nil
}

func (s *invoiceService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}

func (s *invoiceService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *invoiceService) SetDefaults(d Defaults) {
	s.mu.Lock()
	s.defaults = d
	s.mu.Unlock()
}
