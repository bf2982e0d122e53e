package service

import (
	"context"
	"fmt"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/repository"
)

// Summarizer turns a financial summary into short insight text. It never fails.
type Summarizer interface {
	SummarizeFinancials(ctx context.Context, summary string) string
}

// ReportService provides dashboard figures and AI insights
type ReportService interface {
	// Stats aggregates every invoice in the session
	Stats(ctx context.Context) (finance.Stats, error)

	// RevenueTrend returns paid revenue per month for the last months months
	RevenueTrend(ctx context.Context, months int) ([]finance.MonthRevenue, error)

	// PastDue lists pending invoices whose due date has passed
	PastDue(ctx context.Context) ([]*domain.Invoice, error)

	// Insights asks the AI service to comment on the current stats
	Insights(ctx context.Context) (string, error)
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
	summarizer  Summarizer
	clock       Clock
}

// NewReportService creates a new report service
func NewReportService(invoiceRepo repository.InvoiceRepository, summarizer Summarizer, opts ...Option) ReportService {
	o := applyOptions(opts)
	return &reportService{
		invoiceRepo: invoiceRepo,
		summarizer:  summarizer,
		clock:       o.clock,
	}
}

func (s *reportService) Stats(ctx context.Context) (finance.Stats, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return finance.Stats{}, err
	}
	return finance.Summarize(invoices), nil
}

func (s *reportService) RevenueTrend(ctx context.Context, months int) ([]finance.MonthRevenue, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return finance.RevenueByMonth(invoices, s.clock(), months), nil
}

func (s *reportService) PastDue(ctx context.Context) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	var out []*domain.Invoice
	for _, inv := range invoices {
		if finance.IsPastDue(inv, now) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (s *reportService) Insights(ctx context.Context) (string, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return "", err
	}
	return s.summarizer.SummarizeFinancials(ctx, FinancialSummary(stats)), nil
}

// FinancialSummary renders stats as the plain-text data block sent for analysis.
func FinancialSummary(stats finance.Stats) string {
	return fmt.Sprintf("Total Revenue: %s. Pending: %s. Overdue: %s. Total Invoices: %d.",
		finance.FormatMoney(stats.TotalRevenue),
		finance.FormatMoney(stats.Pending),
		finance.FormatMoney(stats.Overdue),
		stats.InvoiceCount,
	)
}

// TrendWindow is the default number of months shown in the revenue trend.
const TrendWindow = 6

