// Package export renders a single invoice to a text or PDF file.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andy/invoicer/internal/domain"
)

// ErrUnsupportedFormat is returned for output paths that are neither .txt nor .pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format (use .txt or .pdf)")

// Sender is the "From" block printed on exports.
type Sender struct {
	Name    string
	Email   string
	Address string
}

func (s Sender) empty() bool {
	return s.Name == "" && s.Email == "" && s.Address == ""
}

// Document is everything needed to render one invoice.
type Document struct {
	Invoice *domain.Invoice
	Client  *domain.Client // optional; falls back to the invoice's client name
	From    Sender
}

func (d Document) billTo() (name, email string) {
	if d.Client != nil {
		return d.Client.Name, d.Client.Email
	}
	return d.Invoice.ClientName, ""
}

// Render writes doc in the given format ("txt" or "pdf") to w.
func Render(w io.Writer, format string, doc Document) error {
	if doc.Invoice == nil {
		return errors.New("export: no invoice")
	}
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "txt":
		return WriteText(w, doc)
	case "pdf":
		return WritePDF(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ToFile writes doc to path using the format implied by its extension and
// returns the path written.
func ToFile(path string, doc Document) (string, error) {
	ext := filepath.Ext(path)
	switch strings.ToLower(ext) {
	case ".txt", ".pdf":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Render(f, ext, doc); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// DefaultFilename is the file name used when only a directory is given.
func DefaultFilename(inv *domain.Invoice, format string) string {
	return inv.ID + "." + strings.TrimPrefix(strings.ToLower(format), ".")
}
