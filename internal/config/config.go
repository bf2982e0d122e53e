package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Hosted AI settings
	AI AIConfig `yaml:"ai"`

	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Log file settings
	Log LogConfig `yaml:"log"`

	// User info for invoices
	User UserConfig `yaml:"user"`
}

type AIConfig struct {
	Model     string        `yaml:"model"`       // Model name sent with each request
	Timeout   time.Duration `yaml:"timeout"`     // Per-request timeout
	APIKeyEnv string        `yaml:"api_key_env"` // Env var checked before the keyring
}

type InvoiceConfig struct {
	DefaultDueDays int     `yaml:"default_due_days"` // Days until invoice due
	DefaultTaxRate float64 `yaml:"default_tax_rate"` // Tax rate as a percentage (10 = 10%)
	OutputDir      string  `yaml:"output_dir"`       // Directory for exported invoices
	IDPrefix       string  `yaml:"id_prefix"`        // Invoice ID prefix (e.g., "inv_")
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"` // debug, info, warn or error
}

type UserConfig struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "invoicer")
}

// DefaultConfigPath returns ~/.config/invoicer/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		AI: AIConfig{
			Model:     "gemini-2.5-flash",
			Timeout:   30 * time.Second,
			APIKeyEnv: "INVOICER_API_KEY",
		},
		Invoice: InvoiceConfig{
			DefaultDueDays: 14,
			DefaultTaxRate: 10,
			OutputDir:      filepath.Join(dir, "invoices"),
			IDPrefix:       "inv_",
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "invoicer.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Invoice.DefaultDueDays < 0 {
		return fmt.Errorf("invoice.default_due_days must not be negative, got %d", c.Invoice.DefaultDueDays)
	}
	if c.Invoice.DefaultTaxRate < 0 {
		return fmt.Errorf("invoice.default_tax_rate must not be negative, got %g", c.Invoice.DefaultTaxRate)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative, got %s", c.AI.Timeout)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps log.level to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", s)
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the log and export directories
func (c *Config) EnsureDirectories() error {
	if c.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.Path), 0755); err != nil {
			return err
		}
	}

	if c.Invoice.OutputDir != "" {
		if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
			return err
		}
	}

	return nil
}
