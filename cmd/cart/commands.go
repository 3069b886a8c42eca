package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rl1809/cart-manager/internal/adapter/notify"
	"github.com/rl1809/cart-manager/internal/core/domain"
)

var okColor = color.New(color.FgGreen)

var addCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withCart(cmd.Context(), func(a *app) error {
			if err := a.cart.AddProduct(cmd.Context(), id); err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "product %d added\n", id)
			return nil
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withCart(cmd.Context(), func(a *app) error {
			if err := a.cart.RemoveProduct(cmd.Context(), id); err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "product %d removed\n", id)
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set <product-id> <amount>",
	Short: "Set the amount of a product already in the cart",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[1])
		}
		return withCart(cmd.Context(), func(a *app) error {
			if err := a.cart.UpdateProductAmount(cmd.Context(), domain.AmountUpdate{ProductID: id, Amount: amount}); err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "product %d amount set to %d\n", id, amount)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withCart(cmd.Context(), func(a *app) error {
			return printCart(a.cart.Cart())
		})
	},
}

func withCart(ctx context.Context, fn func(a *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, cfg, notify.NewTerminalNotifier(os.Stderr))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func printCart(cart []domain.Product) error {
	if len(cart) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Product", "Price", "Amount", "Subtotal"})

	total := decimal.Zero
	var data [][]string
	for _, p := range cart {
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
		total = total.Add(subtotal)
		data = append(data, []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			p.Price.StringFixed(2),
			strconv.Itoa(p.Amount),
			subtotal.StringFixed(2),
		})
	}
	data = append(data, []string{"", "", "", "Total", total.StringFixed(2)})

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}
