package export

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/andy/invoicer/internal/finance"
)

// WritePDF renders doc as a single A4 page.
func WritePDF(w io.Writer, doc Document) error {
	inv := doc.Invoice
	totals := finance.ForInvoice(inv)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.ID, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, "Invoice #: "+inv.ID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+string(inv.Status), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+inv.Date.Format(dateFormat), "", 1, "L", false, 0, "")
	if !inv.DueDate.IsZero() {
		pdf.CellFormat(0, 6, "Due: "+inv.DueDate.Format(dateFormat), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if !doc.From.empty() {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 6, "From", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, s := range []string{doc.From.Name, doc.From.Email, doc.From.Address} {
			if s != "" {
				pdf.CellFormat(0, 5, tr(s), "", 1, "L", false, 0, "")
			}
		}
		pdf.Ln(3)
	}

	name, email := doc.billTo()
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Bill To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, tr(name), "", 1, "L", false, 0, "")
	if email != "" {
		pdf.CellFormat(0, 5, tr(email), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	widths := []float64{95, 25, 30, 40}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(238, 242, 255)
	for i, h := range []string{"Description", "Qty", "Price", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.Items {
		pdf.CellFormat(widths[0], 7, tr(truncate(item.Description, 50)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, formatQuantity(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, finance.FormatMoney(item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, finance.FormatMoney(finance.LineItemTotal(item)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	labelW := widths[0] + widths[1] + widths[2]
	summary := []struct{ label, value string }{
		{"Subtotal", finance.FormatMoney(totals.Subtotal)},
		{"Tax (" + finance.FormatPercent(inv.TaxRate) + ")", finance.FormatMoney(totals.Tax)},
	}
	for _, row := range summary {
		pdf.CellFormat(labelW, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, row.value, "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(labelW, 8, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, finance.FormatMoney(totals.Total), "T", 1, "R", false, 0, "")

	if inv.Notes != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(inv.Notes), "", "L", false)
	}

	return pdf.Output(w)
}
