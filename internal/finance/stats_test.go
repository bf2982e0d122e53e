package finance_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/finance"
)

func TestSummarize(t *testing.T) {
	invoices := []*domain.Invoice{
		invoiceWith(domain.StatusPaid, 10, item(40, 100), item(10, 120)),
		invoiceWith(domain.StatusPending, 10, item(5, 200)),
		invoiceWith(domain.StatusOverdue, 10, item(1, 1500)),
		invoiceWith(domain.StatusDraft, 10, item(1, 99)),
	}

	s := finance.Summarize(invoices)
	assert.InDelta(t, 5200, s.TotalRevenue, tolerance)
	assert.InDelta(t, 1000, s.Pending, tolerance)
	assert.InDelta(t, 1500, s.Overdue, tolerance)
	assert.Equal(t, 1, s.PaidCount)
	assert.Equal(t, 4, s.InvoiceCount)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, finance.Stats{}, finance.Summarize(nil))
}

func TestRevenueByMonth(t *testing.T) {
	at := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	oct := invoiceWith(domain.StatusPaid, 10, item(1, 100))
	oct.Date = at(2023, 10, 15)
	sep := invoiceWith(domain.StatusPaid, 10, item(1, 50))
	sep.Date = at(2023, 9, 1)
	old := invoiceWith(domain.StatusPaid, 10, item(1, 7))
	old.Date = at(2022, 1, 1)
	pending := invoiceWith(domain.StatusPending, 10, item(1, 1000))
	pending.Date = at(2023, 10, 2)

	trend := finance.RevenueByMonth([]*domain.Invoice{oct, sep, old, pending}, at(2023, 10, 28), 3)
	require.Len(t, trend, 3)

	assert.Equal(t, "Aug", trend[0].Label())
	assert.Equal(t, "Sep", trend[1].Label())
	assert.Equal(t, "Oct", trend[2].Label())
	assert.Zero(t, trend[0].Amount)
	assert.InDelta(t, 50, trend[1].Amount, tolerance)
	assert.InDelta(t, 100, trend[2].Amount, tolerance)
}

func TestRevenueByMonth_AcrossYearBoundary(t *testing.T) {
	jan := invoiceWith(domain.StatusPaid, 0, item(2, 10))
	jan.Date = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	dec := invoiceWith(domain.StatusPaid, 0, item(1, 5))
	dec.Date = time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC)

	trend := finance.RevenueByMonth([]*domain.Invoice{jan, dec}, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 2)
	require.Len(t, trend, 2)
	assert.InDelta(t, 5, trend[0].Amount, tolerance)
	assert.InDelta(t, 20, trend[1].Amount, tolerance)
	assert.Nil(t, finance.RevenueByMonth(nil, time.Now(), 0))
}

func TestIsPastDue(t *testing.T) {
	now := time.Date(2023, 11, 20, 15, 0, 0, 0, time.UTC)

	pending := invoiceWith(domain.StatusPending, 10)
	pending.DueDate = time.Date(2023, 11, 12, 0, 0, 0, 0, time.UTC)
	assert.True(t, finance.IsPastDue(pending, now))
	assert.Equal(t, domain.StatusPending, pending.Status, "past-due is a hint, never a transition")

	pending.DueDate = time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC)
	assert.False(t, finance.IsPastDue(pending, now), "due today is not past due")

	paid := invoiceWith(domain.StatusPaid, 10)
	paid.DueDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, finance.IsPastDue(paid, now))
	assert.False(t, finance.IsPastDue(nil, now))
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5720, "$5,720.00"},
		{1234567.891, "$1,234,567.89"},
		{-1234.5, "-$1,234.50"},
		{999.999, "$1,000.00"},
		{math.NaN(), "$NaN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, finance.FormatMoney(tt.in), "FormatMoney(%v)", tt.in)
	}
}

func TestFormatWhole(t *testing.T) {
	assert.Equal(t, "$4,400", finance.FormatWhole(4400))
	assert.Equal(t, "$1,235", finance.FormatWhole(1234.5))
	assert.Equal(t, "$0", finance.FormatWhole(0))
	assert.Equal(t, "-$12", finance.FormatWhole(-12))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "10%", finance.FormatPercent(10))
	assert.Equal(t, "8.25%", finance.FormatPercent(8.25))
}
