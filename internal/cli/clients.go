package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Browse clients",
	Long:  `List and inspect the clients available for invoicing.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		clients, err := appInstance.InvoiceService.ListClients(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		if len(clients) == 0 {
			fmt.Fprintln(out, "No clients found")
			return nil
		}

		// Print table header
		fmt.Fprintf(out, "%-5s %-30s %-30s\n", "ID", "Name", "Email")
		fmt.Fprintln(out, "-----------------------------------------------------------------")

		for _, client := range clients {
			fmt.Fprintf(out, "%-5s %-30s %-30s\n",
				client.ID,
				truncate(client.Name, 30),
				truncate(client.Email, 30),
			)
		}

		fmt.Fprintf(out, "\nTotal: %d client(s)\n", len(clients))
		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show client details and their invoices",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		client, err := appInstance.InvoiceService.GetClient(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get client: %w", err)
		}

		fmt.Fprintf(out, "Client: %s (ID: %s)\n", client.Name, client.ID)
		if client.Email != "" {
			fmt.Fprintf(out, "Email: %s\n", client.Email)
		}
		if client.Address != "" {
			fmt.Fprintf(out, "Address: %s\n", client.Address)
		}

		invoices, err := appInstance.InvoiceService.ListInvoices(ctx, allFacet, "")
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		var count int
		for _, inv := range invoices {
			if inv.ClientID != client.ID {
				continue
			}
			if count == 0 {
				fmt.Fprintln(out, "\nInvoices:")
			}
			count++
			fmt.Fprintf(out, "  %-22s %-10s %12s\n", inv.ID, inv.Status, money(inv))
		}
		if count == 0 {
			fmt.Fprintln(out, "\nNo invoices for this client")
		}
		return nil
	},
}

// truncate shortens s to maxLen runes with a trailing ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsShowCmd)
}
