package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rebeatle/sistema-ventas/internal/domain"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalog",
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tPRICE\tCATEGORY\tSTOCK")
		tracking := env.register.StockTracking()
		for _, p := range env.register.Products() {
			stock := "-"
			if tracking {
				stock = strconv.Itoa(p.Stock)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Code, p.Name, formatMoney(p.PriceCents), p.Category, stock)
		}
		return w.Flush()
	},
}

var (
	productStock int
	productPrice string
)

var productAddCmd = &cobra.Command{
	Use:   "add CODE NAME CATEGORY --price PRICE [--stock N]",
	Short: "Add a product to the catalog",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		cents, err := domain.ParsePrice(productPrice)
		if err != nil {
			return err
		}
		product, err := env.register.AddProduct(args[0], args[1], cents, args[2], productStock)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) at %s\n", product.Name, product.Code, formatMoney(product.PriceCents))
		return nil
	},
}

var productEditCmd = &cobra.Command{
	Use:   "edit CODE NAME CATEGORY --price PRICE [--stock N]",
	Short: "Edit an existing product",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		cents, err := domain.ParsePrice(productPrice)
		if err != nil {
			return err
		}

		// Stock is only written when tracking is on; otherwise the stored
		// value is left untouched.
		var stock *int
		if env.register.StockTracking() && cmd.Flags().Changed("stock") {
			stock = &productStock
		}
		if err := env.register.EditProduct(args[0], args[1], cents, args[2], stock); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
		return nil
	},
}

var productCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the distinct product categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		for _, c := range env.register.Categories() {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var productRemoveCmd = &cobra.Command{
	Use:   "remove CODE",
	Short: "Remove a product from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openRegister(cmd)
		if err != nil {
			return err
		}
		if err := env.register.RemoveProduct(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	productAddCmd.Flags().StringVar(&productPrice, "price", "", "unit price, e.g. 3.50")
	productAddCmd.Flags().IntVar(&productStock, "stock", 0, "initial stock")
	_ = productAddCmd.MarkFlagRequired("price")

	productEditCmd.Flags().StringVar(&productPrice, "price", "", "unit price, e.g. 3.50")
	productEditCmd.Flags().IntVar(&productStock, "stock", 0, "new stock value")
	_ = productEditCmd.MarkFlagRequired("price")

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productCategoriesCmd)
	productCmd.AddCommand(productAddCmd)
	productCmd.AddCommand(productEditCmd)
	productCmd.AddCommand(productRemoveCmd)
}
