package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"google.golang.org/genai"

	"github.com/andy/invoicer/internal/ai"
	"github.com/andy/invoicer/internal/app"
	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/domain"
)

var fixedNow = time.Date(2023, time.November, 20, 9, 0, 0, 0, time.Local)

type scriptedGenerator struct {
	items    string
	insights string
	err      error
}

func (g scriptedGenerator) GenerateContent(_ context.Context, _ string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	text := g.insights
	if cfg != nil && cfg.ResponseMIMEType == "application/json" {
		text = g.items
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
	}}}, nil
}

func newTestApp(t *testing.T, gen ai.Generator) *app.App {
	t.Helper()
	keyring.MockInit()
	t.Setenv("INVOICER_API_KEY", "")

	cfg := config.DefaultConfig()
	cfg.Invoice.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Log.Path = ""

	a, err := app.NewWithConfig(context.Background(), cfg,
		app.WithGenerator(gen),
		app.WithLogWriter(io.Discard),
		app.WithClock(func() time.Time { return fixedNow }),
	)
	require.NoError(t, err)
	a.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
	t.Cleanup(func() {
		a.Close()
		appInstance = nil
	})
	return a
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()
	SetApp(a)
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestClientsList(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "clients", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TechStart Inc")
	assert.Contains(t, out, "accounts@globallog.com")
	assert.Contains(t, out, "Total: 3 client(s)")
}

func TestClientsShow(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "clients", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Creative Studio")
	assert.Contains(t, out, "inv_345678")

	_, err = run(t, a, "clients", "show", "99")
	assert.Error(t, err)
}

func TestInvoicesList_Filters(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "invoices", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: 3 invoice(s)")
	assert.Contains(t, out, "Pending (past due)")

	out, err = run(t, a, "invoices", "list", "--status", "paid")
	require.NoError(t, err)
	assert.Contains(t, out, "inv_123456")
	assert.NotContains(t, out, "inv_789012")

	out, err = run(t, a, "invoices", "list", "--search", "GLOBAL")
	require.NoError(t, err)
	assert.Contains(t, out, "inv_789012")
	assert.Contains(t, out, "Total: 1 invoice(s)")

	out, err = run(t, a, "invoices", "list", "--status", "draft")
	require.NoError(t, err)
	assert.Contains(t, out, "No invoices found")

	_, err = run(t, a, "invoices", "list", "--status", "sent")
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
}

func TestInvoicesShow(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "invoices", "show", "inv_123456")
	require.NoError(t, err)
	assert.Contains(t, out, "Frontend Development")
	assert.Contains(t, out, "Subtotal: $5,200.00")
	assert.Contains(t, out, "Tax (10%): $520.00")
	assert.Contains(t, out, "Total: $5,720.00")
}

func TestInvoicesCreate_ManualItems(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "invoices", "create",
		"--client", "2",
		"--item", "Consultation;5;200",
		"--item", "Travel",
		"--status", "pending",
		"--date", "2023-11-01",
		"--tax", "0",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Invoice created: inv_")
	assert.Contains(t, out, "Client: Global Logistics")
	assert.Contains(t, out, "Total: $1,000.00")

	invoices, err := a.InvoiceService.ListInvoices(context.Background(), domain.FacetAll, "")
	require.NoError(t, err)
	require.Len(t, invoices, 4)
	newest := invoices[0]
	assert.Equal(t, domain.StatusPending, newest.Status)
	assert.Equal(t, "2023-11-15", newest.DueDate.Format(domain.DateLayout))
	require.Len(t, newest.Items, 2)
	assert.Equal(t, 1.0, newest.Items[1].Quantity)
	assert.Zero(t, newest.Items[1].Price)
}

func TestInvoicesCreate_UnknownClient(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	_, err := run(t, a, "invoices", "create", "--client", "99")
	assert.ErrorIs(t, err, domain.ErrValidation)

	invoices, _ := a.InvoiceService.ListInvoices(context.Background(), domain.FacetAll, "")
	assert.Len(t, invoices, 3)
}

func TestInvoicesCreate_WithAI(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{items: `[{"description":"Backend work","quantity":10,"price":120}]`})
	exportPath := filepath.Join(t.TempDir(), "new.txt")

	out, err := run(t, a, "invoices", "create", "--ai", "10 hours backend at 120", "--export", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 item(s) with AI")
	assert.Contains(t, out, "Client: TechStart Inc")
	assert.Contains(t, out, "Total: $1,320.00")
	assert.Contains(t, out, "Exported: "+exportPath)
}

func TestInvoicesCreate_AIFailureSavesNothing(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{err: errors.New("quota")})

	_, err := run(t, a, "invoices", "create", "--ai", "some work")
	assert.ErrorIs(t, err, ai.ErrServiceFailure)

	invoices, _ := a.InvoiceService.ListInvoices(context.Background(), domain.FacetAll, "")
	assert.Len(t, invoices, 3)
}

func TestInvoicesCreate_BadItem(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	_, err := run(t, a, "invoices", "create", "--item", "Work;many;10")
	assert.Error(t, err)
}

func TestInvoicesExport(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "invoices", "export", "inv_789012", "pdf")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(a.Config.Invoice.OutputDir, "inv_789012.pdf"))

	_, err = run(t, a, "invoices", "export", "inv_789012", filepath.Join(t.TempDir(), "x.doc"))
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{insights: "Follow up on Creative Studio."})

	out, err := run(t, a, "stats", "--insights")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Revenue: $5,200")
	assert.Contains(t, out, "Pending:       $1,000")
	assert.Contains(t, out, "Overdue:       $1,500")
	assert.Contains(t, out, "inv_789012")
	assert.Contains(t, out, "Follow up on Creative Studio.")
}

func TestKeyCommands(t *testing.T) {
	a := newTestApp(t, scriptedGenerator{})

	out, err := run(t, a, "key", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not configured")

	SetApp(a)
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetIn(strings.NewReader("secret-key\n"))
	rootCmd.SetArgs([]string{"key", "set"})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "API key stored")
	assert.True(t, a.Gateway().Configured())

	out, err = run(t, a, "key", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "stored in keyring")

	out, err = run(t, a, "key", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = run(t, a, "key", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "No API key stored")
}

func TestParseItem(t *testing.T) {
	item, err := parseItem(" Design ; 2.5 ; $80 ")
	require.NoError(t, err)
	assert.Equal(t, "Design", item.Description)
	assert.Equal(t, 2.5, item.Quantity)
	assert.Equal(t, 80.0, item.Price)
	assert.NotEmpty(t, item.ID)

	for _, bad := range []string{"", ";1;1", "a;b", "a;1;x", "a;1;2;3"} {
		_, err := parseItem(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("today", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, domain.Day(fixedNow), d)

	d, err = parseDate("2024-02-29", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 29, d.Day())

	_, err = parseDate("02/29/2024", fixedNow)
	assert.Error(t, err)
}

func TestShutdown_ReportsCloseError(t *testing.T) {
	keyring.MockInit()
	t.Setenv("INVOICER_API_KEY", "")

	cfg := config.DefaultConfig()
	cfg.Invoice.OutputDir = t.TempDir()
	cfg.Log.Path = filepath.Join(t.TempDir(), "invoicer.log")
	a, err := app.NewWithConfig(context.Background(), cfg, app.WithGenerator(scriptedGenerator{}))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	SetApp(a)
	var stderr bytes.Buffer
	Shutdown(&stderr)

	assert.Contains(t, stderr.String(), "close:")
	assert.Nil(t, appInstance)
}

func TestShutdown_QuietWithoutApp(t *testing.T) {
	appInstance = nil
	var stderr bytes.Buffer
	Shutdown(&stderr)
	assert.Empty(t, stderr.String())
}
