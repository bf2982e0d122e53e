package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/invoicer/internal/finance"
	"github.com/andy/invoicer/internal/service"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show revenue figures",
	Long: `Show total revenue (paid), pending and overdue amounts, all before tax,
and the paid revenue trend for recent months. --insights also asks the AI
service for a short analysis.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		stats, err := appInstance.ReportService.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		fmt.Fprintf(out, "Total Revenue: %s\n", finance.FormatWhole(stats.TotalRevenue))
		fmt.Fprintf(out, "Pending:       %s\n", finance.FormatWhole(stats.Pending))
		fmt.Fprintf(out, "Overdue:       %s\n", finance.FormatWhole(stats.Overdue))
		fmt.Fprintf(out, "Invoices:      %d (%d paid)\n", stats.InvoiceCount, stats.PaidCount)

		months, _ := cmd.Flags().GetInt("months")
		if months > 0 {
			trend, err := appInstance.ReportService.RevenueTrend(ctx, months)
			if err != nil {
				return fmt.Errorf("failed to compute trend: %w", err)
			}
			fmt.Fprintln(out, "\nRevenue trend:")
			for _, m := range trend {
				fmt.Fprintf(out, "  %s %d  %s\n", m.Label(), m.Month.Year(), finance.FormatWhole(m.Amount))
			}
		}

		pastDue, err := appInstance.ReportService.PastDue(ctx)
		if err != nil {
			return fmt.Errorf("failed to check due dates: %w", err)
		}
		if len(pastDue) > 0 {
			fmt.Fprintf(out, "\n%d pending invoice(s) past due:\n", len(pastDue))
			for _, inv := range pastDue {
				fmt.Fprintf(out, "  %s  %s  due %s\n", inv.ID, inv.ClientName, inv.DueDate.Format("2006-01-02"))
			}
		}

		if insights, _ := cmd.Flags().GetBool("insights"); insights {
			aiCtx, cancel := appInstance.AIContext(ctx)
			defer cancel()
			text, err := appInstance.ReportService.Insights(aiCtx)
			if err != nil {
				return fmt.Errorf("failed to get insights: %w", err)
			}
			fmt.Fprintln(out, "\nAI Insights:")
			fmt.Fprintln(out, text)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("insights", false, "Ask the AI service for insights")
	statsCmd.Flags().Int("months", service.TrendWindow, "Months of revenue trend to show (0 to hide)")
}
