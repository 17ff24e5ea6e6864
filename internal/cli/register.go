package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:   "close",
	Short: "Close the register: append the open sale to today's log and reset",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}

		summary, err := env.register.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(),
			"Closed %d items to %s\nGeneral: %s  Cash: %s  Virtual: %s\nReceipt: %s\n",
			summary.ItemCount, summary.LogPath,
			formatMoney(summary.Totals.GeneralCents),
			formatMoney(summary.Totals.CashCents),
			formatMoney(summary.Totals.VirtualCents),
			summary.ReceiptID)
		return nil
	},
}

var discardKeepStock bool

var discardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Throw away the open sale without logging it",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}

		count := len(env.register.Lines())
		if err := env.register.Discard(!discardKeepStock); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Discarded %d line items.\n", count)
		return nil
	},
}

func init() {
	discardCmd.Flags().BoolVar(&discardKeepStock, "keep-stock", false,
		"do not restore stock for the discarded lines")
}
