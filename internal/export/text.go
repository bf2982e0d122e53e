package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/andy/invoicer/internal/finance"
)

const dateFormat = "Jan 02, 2006"

// WriteText renders doc as a fixed-width plain-text invoice.
func WriteText(w io.Writer, doc Document) error {
	inv := doc.Invoice
	totals := finance.ForInvoice(inv)

	var b strings.Builder

	sep := strings.Repeat("=", 60)
	line := strings.Repeat("-", 60)

	b.WriteString("INVOICE\n")
	b.WriteString(sep + "\n")
	fmt.Fprintf(&b, "Invoice #:  %s\n", inv.ID)
	fmt.Fprintf(&b, "Status:     %s\n", inv.Status)
	fmt.Fprintf(&b, "Date:       %s\n", inv.Date.Format(dateFormat))
	if !inv.DueDate.IsZero() {
		fmt.Fprintf(&b, "Due:        %s\n", inv.DueDate.Format(dateFormat))
	}

	// From section (user info)
	if !doc.From.empty() {
		b.WriteString("\nFrom:\n")
		for _, s := range []string{doc.From.Name, doc.From.Email, doc.From.Address} {
			if s != "" {
				fmt.Fprintf(&b, "  %s\n", s)
			}
		}
	}

	// Bill To section
	name, email := doc.billTo()
	b.WriteString("\nBill To:\n")
	fmt.Fprintf(&b, "  %s\n", name)
	if email != "" {
		fmt.Fprintf(&b, "  %s\n", email)
	}

	b.WriteString("\n" + line + "\n")
	fmt.Fprintf(&b, "%-28s %8s %10s %11s\n", "Description", "Qty", "Price", "Amount")
	b.WriteString(line + "\n")

	for _, item := range inv.Items {
		fmt.Fprintf(&b, "%-28s %8s %10s %11s\n",
			truncate(item.Description, 28),
			formatQuantity(item.Quantity),
			finance.FormatMoney(item.Price),
			finance.FormatMoney(finance.LineItemTotal(item)),
		)
	}

	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%48s %11s\n", "Subtotal", finance.FormatMoney(totals.Subtotal))
	fmt.Fprintf(&b, "%48s %11s\n", "Tax ("+finance.FormatPercent(inv.TaxRate)+")", finance.FormatMoney(totals.Tax))
	fmt.Fprintf(&b, "%48s %11s\n", "TOTAL", finance.FormatMoney(totals.Total))
	b.WriteString(sep + "\n")

	if inv.Notes != "" {
		b.WriteString("\nNotes:\n")
		fmt.Fprintf(&b, "  %s\n", inv.Notes)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func formatQuantity(q float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}

