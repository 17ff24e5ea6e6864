package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Control the stock-tracking subsystem",
}

var stockStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether stock tracking is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		if env.register.StockTracking() {
			fmt.Fprintln(cmd.OutOrStdout(), "Stock tracking is ENABLED")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Stock tracking is DISABLED")
		}
		return nil
	},
}

var stockEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable stock tracking (existing stock values are not revalidated)",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		if err := env.register.SetStockTracking(true); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stock tracking enabled.")
		return nil
	},
}

var stockDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable stock tracking (stock values freeze in place)",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		if err := env.register.SetStockTracking(false); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stock tracking disabled.")
		return nil
	},
}

var lowStockThreshold int

var stockLowCmd = &cobra.Command{
	Use:   "low",
	Short: "List products at or below the low-stock threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}

		threshold := lowStockThreshold
		if threshold == 0 {
			threshold = env.cfg.LowStockReport
		}
		products := env.register.LowStock(threshold)
		if len(products) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No products at or below %d units.\n", threshold)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tSTOCK")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%d\n", p.Code, p.Name, p.Stock)
		}
		return w.Flush()
	},
}

func init() {
	stockLowCmd.Flags().IntVar(&lowStockThreshold, "threshold", 0, "override the configured threshold")

	stockCmd.AddCommand(stockStatusCmd)
	stockCmd.AddCommand(stockEnableCmd)
	stockCmd.AddCommand(stockDisableCmd)
	stockCmd.AddCommand(stockLowCmd)
}
