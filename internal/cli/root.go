package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/app"
)

var (
	appInstance *app.App
	configPath  string
)

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "An invoicing dashboard for freelancers",
	Long: `Invoicer lets you browse clients, filter invoices, draft new invoices
(optionally from a plain-English description via AI) and review revenue.

By default, running invoicer without arguments launches the interactive TUI.
Use subcommands for CLI operations. Data lives only for the current session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return ensureApp(cmd.Context())
	},
	RunE: launchTUI,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

// Close releases the app built for this invocation, if any.
func Close() error {
	if appInstance == nil {
		return nil
	}
	return appInstance.Close()
}

// Shutdown closes the app and reports a close failure on w.
func Shutdown(w io.Writer) {
	if err := Close(); err != nil {
		fmt.Fprintln(w, "close:", err)
	}
	appInstance = nil
}

func ensureApp(ctx context.Context) error {
	if appInstance != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	appInstance = a
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/invoicer/config.yaml)")

	// Add all subcommands
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(tuiCmd)
}
