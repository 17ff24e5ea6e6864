package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Work with the open sale session",
}

var sellMethod string

var sellAddCmd = &cobra.Command{
	Use:   "add CODE QTY",
	Short: "Add a catalog product to the open sale",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return domain.ErrInvalidQuantity
		}

		line, warning, err := env.register.RecordSale(args[0], qty, domain.PaymentMethod(sellMethod))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s x%d = %s (%s)\n",
			line.ID, line.Name, line.Quantity, formatMoney(line.SubtotalCents), line.Method.Label())
		if warning != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "WARNING: %s\n", warning)
		}
		return nil
	},
}

var sellOtherCmd = &cobra.Command{
	Use:   "other NAME PRICE QTY",
	Short: "Sell an ad-hoc variable-price product",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		cents, err := domain.ParsePrice(args[1])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return domain.ErrInvalidQuantity
		}

		line, err := env.register.RecordVariableSale(args[0], cents, qty, domain.PaymentMethod(sellMethod))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s (%s) x%d = %s\n",
			line.ID, line.Name, line.Code, line.Quantity, formatMoney(line.SubtotalCents))
		return nil
	},
}

var sellRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a line item from the open sale by its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid line id %q", args[0])
		}

		line, err := env.register.RemoveLine(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s x%d\n", line.Name, line.Quantity)
		return nil
	},
}

var sellListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the open sale and its totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}

		lines := env.register.Lines()
		if len(lines) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No open sale.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRODUCT\tQTY\tUNIT\tSUBTOTAL\tMETHOD")
		for _, line := range lines {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\n",
				line.ID, line.Name, line.Quantity,
				formatMoney(line.UnitPriceCents), formatMoney(line.SubtotalCents), line.Method.Label())
		}
		if err := w.Flush(); err != nil {
			return err
		}

		totals := env.register.Totals()
		fmt.Fprintf(cmd.OutOrStdout(), "\nGeneral: %s  Cash: %s  Virtual: %s\n",
			formatMoney(totals.GeneralCents), formatMoney(totals.CashCents), formatMoney(totals.VirtualCents))
		return nil
	},
}

func init() {
	sellCmd.PersistentFlags().StringVarP(&sellMethod, "method", "m", string(domain.MethodCash),
		"payment method: E=Efectivo, Y=Yape, P=Plin, O=Otros")

	sellCmd.AddCommand(sellAddCmd)
	sellCmd.AddCommand(sellOtherCmd)
	sellCmd.AddCommand(sellRemoveCmd)
	sellCmd.AddCommand(sellListCmd)
}
