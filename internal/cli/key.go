package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/andy/invoicer/internal/secret"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the AI service API key",
	Long: `Store, remove or inspect the Gemini API key. The key is kept in the OS
keyring; the environment variable named by ai.api_key_env takes precedence.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the API key in the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := readKey(cmd)
		if err != nil {
			return err
		}
		if err := appInstance.Secrets.SetKey(key); err != nil {
			return err
		}
		if err := appInstance.ConfigureAI(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ API key stored in keyring")
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the API key from the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appInstance.Secrets.DeleteKey(); err != nil {
			if errors.Is(err, secret.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No API key stored in keyring")
				return nil
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ API key removed from keyring")
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, src, err := appInstance.Secrets.GetKey()
		switch {
		case errors.Is(err, secret.ErrNotFound):
			fmt.Fprintln(out, "API key: not configured (AI features disabled)")
		case err != nil:
			return err
		case src == secret.SourceEnv:
			fmt.Fprintf(out, "API key: set via $%s\n", appInstance.Settings().AI.APIKeyEnv)
		default:
			fmt.Fprintln(out, "API key: stored in keyring")
		}
		fmt.Fprintf(out, "Model:   %s\n", appInstance.Settings().AI.Model)
		return nil
	},
}

// readKey prompts without echo on a terminal, otherwise reads one line from
// the command's input so the key can be piped in.
func readKey(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), "Enter Gemini API key: ")
		key, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout()) // New line after input
		if err != nil {
			return "", fmt.Errorf("failed to read key: %w", err)
		}
		return strings.TrimSpace(string(key)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyDeleteCmd)
	keyCmd.AddCommand(keyStatusCmd)
}
