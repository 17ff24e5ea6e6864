package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rebeatle/sistema-ventas/internal/domain"
	"github.com/rebeatle/sistema-ventas/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Aggregate closed day logs",
}

var reportDayCmd = &cobra.Command{
	Use:   "day [DATE]",
	Short: "Daily report with payment-method mix (default: today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}

		date := time.Now().Format(domain.DateLayout)
		if len(args) == 1 {
			if _, err := time.Parse(domain.DateLayout, args[0]); err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", args[0])
			}
			date = args[0]
		}

		day, err := env.reports.DayReport(date)
		if err != nil {
			return err
		}
		if day == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "No sales recorded on %s.\n", date)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Report for %s (%d records)\n\n", day.Date, day.RecordCount)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRODUCT\tQTY\tUNIT\tSUBTOTAL\tMETHODS")
		for _, p := range day.Products {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
				p.Name, p.Quantity, formatMoney(p.UnitPriceCents), formatMoney(p.SubtotalCents), p.MethodsDisplay)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout())
		for _, m := range domain.PaymentMethods() {
			label := m.Label()
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %12s  (%.1f%%)\n",
				label, formatMoney(day.MethodTotals[label]), day.MethodPercents[label])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %12s\n", "TOTAL", formatMoney(day.TotalCents))
		return nil
	},
}

var (
	reportFrom      string
	reportTo        string
	reportTopN      int
	reportByRevenue bool
	reportCategory  string
	reportCode      string
)

func parseRange() (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if reportFrom != "" {
		parsed, err := time.Parse(domain.DateLayout, reportFrom)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from %q, want YYYY-MM-DD", reportFrom)
		}
		from = parsed
	}
	if reportTo != "" {
		parsed, err := time.Parse(domain.DateLayout, reportTo)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to %q, want YYYY-MM-DD", reportTo)
		}
		to = parsed
	}
	return from, to, nil
}

var reportInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inventory sold over a date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		from, to, err := parseRange()
		if err != nil {
			return err
		}

		rows, err := env.reports.InventorySold(from, to, report.Filter{Category: reportCategory, Code: reportCode})
		if err != nil {
			return err
		}
		return printSales(cmd, rows)
	},
}

var reportTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Top products by quantity or revenue",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		from, to, err := parseRange()
		if err != nil {
			return err
		}

		rows, err := env.reports.TopProducts(from, to, reportTopN, reportByRevenue)
		if err != nil {
			return err
		}
		return printSales(cmd, rows)
	},
}

func printSales(cmd *cobra.Command, rows []domain.ProductSales) error {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No sales in range.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME\tCATEGORY\tQTY\tREVENUE")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			row.Code, row.Name, row.Category, row.TotalQuantity, formatMoney(row.RevenueCents))
	}
	return w.Flush()
}

func init() {
	for _, c := range []*cobra.Command{reportInventoryCmd, reportTopCmd} {
		c.Flags().StringVar(&reportFrom, "from", "", "range start, YYYY-MM-DD (default: 30 days ago)")
		c.Flags().StringVar(&reportTo, "to", "", "range end, YYYY-MM-DD (default: today)")
	}
	reportInventoryCmd.Flags().StringVar(&reportCategory, "category", "", "filter by category")
	reportInventoryCmd.Flags().StringVar(&reportCode, "code", "", "filter by product code")
	reportTopCmd.Flags().IntVar(&reportTopN, "n", 10, "number of products")
	reportTopCmd.Flags().BoolVar(&reportByRevenue, "by-revenue", false, "rank by revenue instead of quantity")

	reportCmd.AddCommand(reportDayCmd)
	reportCmd.AddCommand(reportInventoryCmd)
	reportCmd.AddCommand(reportTopCmd)
}
