package repository

import (
	"time"

	"github.com/andy/invoicer/internal/domain"
)

// SeedClients returns the demo clients available in every session.
func SeedClients() []*domain.Client {
	return []*domain.Client{
		domain.NewClient("1", "TechStart Inc", "billing@techstart.io"),
		domain.NewClient("2", "Global Logistics", "accounts@globallog.com"),
		domain.NewClient("3", "Creative Studio", "hello@creative.studio"),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// SeedInvoices returns the demo invoices, newest first.
func SeedInvoices() []*domain.Invoice {
	return []*domain.Invoice{
		{
			ID:         "inv_123456",
			ClientID:   "1",
			ClientName: "TechStart Inc",
			Status:     domain.StatusPaid,
			Date:       day(2023, time.October, 15),
			DueDate:    day(2023, time.October, 30),
			TaxRate:    10,
			Items: []domain.LineItem{
				{ID: "li_1", Description: "Frontend Development", Quantity: 40, Price: 100},
				{ID: "li_2", Description: "UI Design", Quantity: 10, Price: 120},
			},
		},
		{
			ID:         "inv_789012",
			ClientID:   "2",
			ClientName: "Global Logistics",
			Status:     domain.StatusPending,
			Date:       day(2023, time.October, 28),
			DueDate:    day(2023, time.November, 12),
			TaxRate:    10,
			Items: []domain.LineItem{
				{ID: "li_3", Description: "Consultation", Quantity: 5, Price: 200},
			},
		},
		{
			ID:         "inv_345678",
			ClientID:   "3",
			ClientName: "Creative Studio",
			Status:     domain.StatusOverdue,
			Date:       day(2023, time.September, 1),
			DueDate:    day(2023, time.September, 15),
			TaxRate:    10,
			Items: []domain.LineItem{
				{ID: "li_4", Description: "Logo Redesign", Quantity: 1, Price: 1500},
			},
		},
	}
}
