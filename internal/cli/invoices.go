package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/repository"
)

var allFacet = domain.FacetAll

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, show and export invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		statusStr, _ := cmd.Flags().GetString("status")
		facet, err := domain.ParseStatusFacet(statusStr)
		if err != nil {
			return err
		}
		search, _ := cmd.Flags().GetString("search")

		invoices, err := appInstance.InvoiceService.ListInvoices(cmd.Context(), facet, search)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		// Print table header
		fmt.Fprintf(out, "%-22s %-20s %-12s %-12s %12s %-10s\n", "ID", "Client", "Date", "Due", "Total", "Status")
		fmt.Fprintln(out, strings.Repeat("-", 94))

		now := appInstance.Now()
		for _, inv := range invoices {
			status := string(inv.Status)
			if finance.IsPastDue(inv, now) {
				status += " (past due)"
			}
			fmt.Fprintf(out, "%-22s %-20s %-12s %-12s %12s %-10s\n",
				truncate(inv.ID, 22),
				truncate(inv.ClientName, 20),
				inv.Date.Format(domain.DateLayout),
				inv.DueDate.Format(domain.DateLayout),
				money(inv),
				status,
			)
		}

		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		invoice, err := appInstance.InvoiceService.GetInvoice(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get invoice: %w", err)
		}
		printInvoice(cmd.OutOrStdout(), invoice, appInstance.Now())
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new invoice",
	Long: `Create a new invoice from flags.

Line items are given as --item "description;quantity;price" and may be
repeated. --ai asks the AI service to extract items from a plain-English
description; they are appended after any --item values.`,
	Example: `  invoicer invoices create --client 1 --item "Consultation;5;200"
  invoicer invoices create --client 2 --ai "10 hours of backend work at 120/h" --status pending`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		draft, err := appInstance.InvoiceService.NewDraft(ctx)
		if err != nil {
			return fmt.Errorf("failed to start invoice: %w", err)
		}

		if cmd.Flags().Changed("client") {
			draft.ClientID, _ = cmd.Flags().GetString("client")
		}

		if cmd.Flags().Changed("status") {
			s, _ := cmd.Flags().GetString("status")
			if draft.Status, err = domain.ParseStatus(s); err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("date") {
			s, _ := cmd.Flags().GetString("date")
			date, err := parseDate(s, appInstance.Now())
			if err != nil {
				return fmt.Errorf("invalid date: %w", err)
			}
			draft.DueDate = date.AddDate(0, 0, appInstance.Settings().Invoice.DefaultDueDays)
			draft.Date = date
		}
		if cmd.Flags().Changed("due") {
			s, _ := cmd.Flags().GetString("due")
			if draft.DueDate, err = parseDate(s, appInstance.Now()); err != nil {
				return fmt.Errorf("invalid due date: %w", err)
			}
		}

		if cmd.Flags().Changed("tax") {
			draft.TaxRate, _ = cmd.Flags().GetFloat64("tax")
		}
		draft.Notes, _ = cmd.Flags().GetString("notes")

		specs, _ := cmd.Flags().GetStringArray("item")
		for _, spec := range specs {
			item, err := parseItem(spec)
			if err != nil {
				return err
			}
			draft.AppendItems([]domain.LineItem{item})
		}

		if text, _ := cmd.Flags().GetString("ai"); text != "" {
			aiCtx, cancel := appInstance.AIContext(ctx)
			items, err := appInstance.InvoiceService.GenerateItems(aiCtx, text)
			cancel()
			if err != nil {
				return fmt.Errorf("failed to generate items: %w", err)
			}
			draft.AppendItems(items)
			fmt.Fprintf(out, "✓ Generated %d item(s) with AI\n", len(items))
		}

		invoice, err := appInstance.InvoiceService.Save(ctx, draft)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		fmt.Fprintf(out, "✓ Invoice created: %s\n", invoice.ID)
		fmt.Fprintf(out, "  Client: %s\n", invoice.ClientName)
		fmt.Fprintf(out, "  Items: %d\n", len(invoice.Items))
		fmt.Fprintf(out, "  Total: %s\n", money(invoice))

		if path, _ := cmd.Flags().GetString("export"); path != "" {
			written, err := appInstance.ExportInvoice(ctx, invoice.ID, path)
			if err != nil {
				return fmt.Errorf("failed to export invoice: %w", err)
			}
			fmt.Fprintf(out, "  Exported: %s\n", written)
		}
		return nil
	},
}

var invoicesExportCmd = &cobra.Command{
	Use:   "export [id] [path.pdf|path.txt|pdf|txt]",
	Short: "Export an invoice as text or PDF",
	Long: `Export an invoice to a file. The format follows the file extension.
Passing just "pdf" or "txt" writes <id>.<ext> into invoice.output_dir.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := appInstance.ExportInvoice(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("failed to export invoice: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice exported: %s\n", path)
		return nil
	},
}

func printInvoice(out io.Writer, invoice *domain.Invoice, now time.Time) {
	totals := finance.ForInvoice(invoice)

	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "Invoice: %s\n", invoice.ID)
	fmt.Fprintln(out, strings.Repeat("=", 72))
	fmt.Fprintf(out, "Client: %s\n", invoice.ClientName)
	fmt.Fprintf(out, "Date:   %s\n", invoice.Date.Format(domain.DateLayout))
	fmt.Fprintf(out, "Due:    %s\n", invoice.DueDate.Format(domain.DateLayout))
	status := string(invoice.Status)
	if finance.IsPastDue(invoice, now) {
		status += " (past due)"
	}
	fmt.Fprintf(out, "Status: %s\n", status)
	fmt.Fprintln(out)

	if len(invoice.Items) > 0 {
		fmt.Fprintln(out, "Line Items:")
		fmt.Fprintln(out, strings.Repeat("-", 72))
		fmt.Fprintf(out, "%-36s %8s %12s %12s\n", "Description", "Qty", "Price", "Amount")
		fmt.Fprintln(out, strings.Repeat("-", 72))

		for _, item := range invoice.Items {
			fmt.Fprintf(out, "%-36s %8s %12s %12s\n",
				truncate(item.Description, 36),
				strconv.FormatFloat(item.Quantity, 'f', -1, 64),
				finance.FormatMoney(item.Price),
				finance.FormatMoney(finance.LineItemTotal(item)),
			)
		}
		fmt.Fprintln(out, strings.Repeat("-", 72))
	}

	// Print totals
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Subtotal: %s\n", finance.FormatMoney(totals.Subtotal))
	fmt.Fprintf(out, "Tax (%s): %s\n", finance.FormatPercent(invoice.TaxRate), finance.FormatMoney(totals.Tax))
	fmt.Fprintf(out, "Total: %s\n", finance.FormatMoney(totals.Total))
	if invoice.Notes != "" {
		fmt.Fprintf(out, "\nNotes: %s\n", invoice.Notes)
	}
	fmt.Fprintln(out, strings.Repeat("=", 72))
}

func money(inv *domain.Invoice) string {
	return finance.FormatMoney(finance.Total(inv))
}

// parseItem parses "description;quantity;price". Quantity and price may be
// omitted and default to 1 and 0.
func parseItem(spec string) (domain.LineItem, error) {
	parts := strings.Split(spec, ";")
	if len(parts) > 3 {
		return domain.LineItem{}, fmt.Errorf("invalid item %q: expected \"description;quantity;price\"", spec)
	}

	item := domain.NewLineItem(repository.NewLineItemID())
	item.Description = strings.TrimSpace(parts[0])

	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		q, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("invalid quantity in item %q: %w", spec, err)
		}
		item.Quantity = q
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		p, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(parts[2]), "$"), 64)
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("invalid price in item %q: %w", spec, err)
		}
		item.Price = p
	}

	if item.Description == "" {
		return domain.LineItem{}, errors.New("item description is required")
	}
	return item, nil
}

// parseDate accepts YYYY-MM-DD, "today" or "tomorrow"
func parseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return domain.Day(now), nil
	case "tomorrow":
		return domain.Day(now).AddDate(0, 0, 1), nil
	default:
		t, err := domain.ParseDate(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected format: YYYY-MM-DD, 'today', or 'tomorrow'")
		}
		return t, nil
	}
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesExportCmd)

	// List flags
	invoicesListCmd.Flags().String("status", "all", "Filter by status (all, draft, pending, paid, overdue)")
	invoicesListCmd.Flags().String("search", "", "Match client name (any case) or invoice ID")

	// Create flags
	invoicesCreateCmd.Flags().String("client", "", "Client ID (defaults to the first client)")
	invoicesCreateCmd.Flags().StringArray("item", nil, `Line item as "description;quantity;price" (repeatable)`)
	invoicesCreateCmd.Flags().String("ai", "", "Describe the work and let AI extract line items")
	invoicesCreateCmd.Flags().String("status", "draft", "Status (draft, pending, paid, overdue)")
	invoicesCreateCmd.Flags().String("date", "", "Invoice date (defaults to today)")
	invoicesCreateCmd.Flags().String("due", "", "Due date (defaults to date + invoice.default_due_days)")
	invoicesCreateCmd.Flags().Float64("tax", 0, "Tax rate in percent (defaults to invoice.default_tax_rate)")
	invoicesCreateCmd.Flags().String("notes", "", "Notes printed on the invoice")
	invoicesCreateCmd.Flags().String("export", "", "Export after saving (path.pdf, path.txt, pdf or txt)")
}
