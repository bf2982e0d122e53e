package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/export"
)

func sampleDoc() export.Document {
	return export.Document{
		Invoice: &domain.Invoice{
			ID:         "inv_123456",
			ClientID:   "1",
			ClientName: "TechStart Inc",
			Status:     domain.StatusPaid,
			Date:       time.Date(2023, 10, 15, 0, 0, 0, 0, time.Local),
			DueDate:    time.Date(2023, 10, 30, 0, 0, 0, 0, time.Local),
			TaxRate:    10,
			Notes:      "Thanks for your business.",
			Items: []domain.LineItem{
				{ID: "a", Description: "Frontend Development", Quantity: 40, Price: 100},
				{ID: "b", Description: "UI Design", Quantity: 10, Price: 120},
			},
		},
		Client: &domain.Client{ID: "1", Name: "TechStart Inc", Email: "billing@techstart.io"},
		From:   export.Sender{Name: "Andy", Email: "andy@example.com"},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteText(&buf, sampleDoc()))
	out := buf.String()

	for _, want := range []string{
		"Invoice #:  inv_123456",
		"Oct 15, 2023",
		"Oct 30, 2023",
		"From:\n  Andy\n  andy@example.com",
		"Bill To:\n  TechStart Inc\n  billing@techstart.io",
		"Frontend Development",
		"$4,000.00",
		"$5,200.00",
		"Tax (10%)",
		"$520.00",
		"$5,720.00",
		"Thanks for your business.",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteText_FallsBackToClientName(t *testing.T) {
	doc := sampleDoc()
	doc.Client = nil
	doc.From = export.Sender{}

	var buf bytes.Buffer
	require.NoError(t, export.WriteText(&buf, doc))
	assert.Contains(t, buf.String(), "Bill To:\n  TechStart Inc\n")
	assert.NotContains(t, buf.String(), "From:")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WritePDF(&buf, sampleDoc()))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"out/invoice.txt", "out/invoice.PDF"} {
		path, err := export.ToFile(filepath.Join(dir, name), sampleDoc())
		require.NoError(t, err, name)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestToFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.docx")

	_, err := export.ToFile(path, sampleDoc())
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDefaultFilename(t *testing.T) {
	assert.Equal(t, "inv_123456.pdf", export.DefaultFilename(sampleDoc().Invoice, ".PDF"))
}
