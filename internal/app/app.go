package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/andy/invoicer/internal/ai"
	"github.com/andy/invoicer/internal/config"
	"github.com/andy/invoicer/internal/export"
	"github.com/andy/invoicer/internal/repository"
	"github.com/andy/invoicer/internal/secret"
	"github.com/andy/invoicer/internal/service"
)

// App is the dependency injection container for all application components.
// Config and the gateway may be replaced while commands run; go through
// UpdateConfig and Gateway rather than writing them directly.
type App struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	// Session store and its repository views
	Store       *repository.Store
	ClientRepo  repository.ClientRepository
	InvoiceRepo repository.InvoiceRepository

	Secrets secret.Store

	// Services
	InvoiceService service.InvoiceService
	ReportService  service.ReportService

	clock   service.Clock
	logFile io.Closer

	mu      sync.RWMutex // guards Config contents and gateway
	gateway *ai.Gateway
}

// Option overrides a default dependency.
type Option func(*options)

type options struct {
	generator ai.Generator
	secrets   secret.Store
	logWriter io.Writer
	clock     service.Clock
}

// WithGenerator replaces the Gemini client, for tests and offline use.
func WithGenerator(g ai.Generator) Option { return func(o *options) { o.generator = g } }

// WithSecretStore replaces the env/keyring key store.
func WithSecretStore(s secret.Store) Option { return func(o *options) { o.secrets = s } }

// WithLogWriter sends logs to w instead of the configured log file.
func WithLogWriter(w io.Writer) Option { return func(o *options) { o.logWriter = w } }

// WithClock overrides time.Now for every service.
func WithClock(c service.Clock) Option { return func(o *options) { o.clock = c } }

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Opening the log file
// 3. Seeding the session store
// 4. Reading the API key and building the AI gateway
// 5. Creating services
func New(ctx context.Context, configPath string, opts ...Option) (*App, error) {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := NewWithConfig(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	a.ConfigPath = configPath
	return a, nil
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:     cfg,
		ConfigPath: config.DefaultConfigPath(),
		clock:      o.clock,
	}

	logger, closer, err := openLogger(cfg.Log, o.logWriter)
	if err != nil {
		return nil, err
	}
	a.Logger = logger
	a.logFile = closer

	a.Store = repository.NewSeededStore()
	a.Store.SetLogger(logger)
	a.ClientRepo = a.Store.Clients()
	a.InvoiceRepo = a.Store.Invoices()

	a.Secrets = o.secrets
	if a.Secrets == nil {
		a.Secrets = secret.NewStore(cfg.AI.APIKeyEnv)
	}

	if o.generator != nil {
		a.gateway = ai.NewGateway(o.generator, cfg.AI.Model, ai.WithLogger(logger))
	} else if err := a.ConfigureAI(ctx); err != nil {
		a.Close()
		return nil, err
	}

	ids, err := repository.NewIDGenerator(cfg.Invoice.IDPrefix, int64(os.Getpid()%1024))
	if err != nil {
		a.Close()
		return nil, err
	}

	a.InvoiceService = service.NewInvoiceService(
		a.InvoiceRepo,
		a.ClientRepo,
		ids,
		a,
		a.Defaults(),
		service.WithClock(o.clock),
		service.WithLogger(logger),
	)
	a.ReportService = service.NewReportService(
		a.InvoiceRepo,
		a,
		service.WithClock(o.clock),
		service.WithLogger(logger),
	)

	logger.Info("invoicer started", "config", a.ConfigPath, "ai_configured", a.Gateway().Configured())
	return a, nil
}

// ConfigureAI (re)builds the gateway from the stored API key and the
// configured model. Without a key the gateway reports ErrNotConfigured.
func (a *App) ConfigureAI(ctx context.Context) error {
	aiCfg := a.Settings().AI

	key, src, err := a.Secrets.GetKey()
	if err != nil {
		a.Logger.Info("no api key available, ai features disabled", "error", err)
		a.setGateway(ai.NewGateway(ai.Unconfigured(), aiCfg.Model, ai.WithLogger(a.Logger)))
		return nil
	}

	gw, err := ai.NewGeminiGateway(ctx, key, aiCfg.Model, &http.Client{Timeout: aiCfg.Timeout}, ai.WithLogger(a.Logger))
	if err != nil {
		return fmt.Errorf("failed to configure ai: %w", err)
	}
	a.Logger.Debug("ai gateway configured", "model", gw.Model(), "key_source", src)
	a.setGateway(gw)
	return nil
}

// Gateway returns the gateway currently in use.
func (a *App) Gateway() *ai.Gateway {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.gateway
}

func (a *App) setGateway(gw *ai.Gateway) {
	a.mu.Lock()
	a.gateway = gw
	a.mu.Unlock()
}

// Settings returns a copy of the current configuration.
func (a *App) Settings() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *a.Config
}

// ExtractLineItems forwards to the current gateway, so a key set mid-session
// takes effect without rebuilding services.
func (a *App) ExtractLineItems(ctx context.Context, text string) ([]ai.ExtractedItem, error) {
	return a.Gateway().ExtractLineItems(ctx, text)
}

// SummarizeFinancials forwards to the current gateway.
func (a *App) SummarizeFinancials(ctx context.Context, summary string) string {
	return a.Gateway().SummarizeFinancials(ctx, summary)
}

// AIContext derives a context bounded by ai.timeout.
func (a *App) AIContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := a.Settings().AI.Timeout
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// Defaults returns the editor defaults from config.
func (a *App) Defaults() service.Defaults {
	return defaultsFrom(a.Settings())
}

func defaultsFrom(cfg config.Config) service.Defaults {
	return service.Defaults{
		TaxRate: cfg.Invoice.DefaultTaxRate,
		DueDays: cfg.Invoice.DefaultDueDays,
	}
}

// Sender returns the "From" block for exports.
func (a *App) Sender() export.Sender {
	u := a.Settings().User
	return export.Sender{Name: u.Name, Email: u.Email, Address: u.Address}
}

// ExportInvoice writes an invoice to path, or into the configured output
// directory when path is a bare format ("pdf" or "txt").
func (a *App) ExportInvoice(ctx context.Context, id, path string) (string, error) {
	inv, err := a.InvoiceService.GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}
	// The invoice keeps its own client name, so a missing client is not fatal.
	client, _ := a.InvoiceService.GetClient(ctx, inv.ClientID)

	if path == "pdf" || path == "txt" {
		path = filepath.Join(a.Settings().Invoice.OutputDir, export.DefaultFilename(inv, path))
	}

	out, err := export.ToFile(path, export.Document{Invoice: inv, Client: client, From: a.Sender()})
	if err != nil {
		return "", err
	}
	a.Logger.Info("invoice exported", "id", inv.ID, "path", out)
	return out, nil
}

// Now returns the app clock's current time.
func (a *App) Now() time.Time { return a.clock() }

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.UpdateConfig(context.Background(), func(*config.Config) {})
}

// UpdateConfig applies fn to a copy of the configuration, validates and saves
// it, then swaps it in. Draft defaults follow the new values and the gateway
// is rebuilt when the model changes. On error the current config is kept.
func (a *App) UpdateConfig(ctx context.Context, fn func(*config.Config)) error {
	a.mu.Lock()
	next := *a.Config
	fn(&next)
	if err := next.Validate(); err != nil {
		a.mu.Unlock()
		return err
	}
	if err := next.Save(a.ConfigPath); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("failed to save config: %w", err)
	}
	modelChanged := next.AI.Model != a.Config.AI.Model
	*a.Config = next
	a.mu.Unlock()

	a.InvoiceService.SetDefaults(defaultsFrom(next))
	a.Logger.Info("config saved", "path", a.ConfigPath)
	if modelChanged {
		return a.ConfigureAI(ctx)
	}
	return nil
}

func openLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var closer io.Closer
	if w == nil {
		if cfg.Path == "" {
			w = io.Discard
		} else {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log dir: %w", err)
			}
			f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open log file: %w", err)
			}
			w, closer = f, f
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

var (
	_ service.Extractor  = (*App)(nil)
	_ service.Summarizer = (*App)(nil)
)
