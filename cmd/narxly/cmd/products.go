package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Query the catalog on a running server",
	}

	cmd.AddCommand(productsListCmd())
	cmd.AddCommand(productsGetCmd())

	return cmd
}

func productsListCmd() *cobra.Command {
	var (
		page     int
		limit    int
		search   string
		category string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			client := newClient()

			result, err := client.ListProducts(
				cobraCmd.Context(), page, limit, search, category,
			)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(result)
			}

			if err := printProductsTable(result.Products); err != nil {
				return err
			}
			fmt.Printf("\nPage %d, showing %d of %d products (hasMore=%v)\n",
				result.Page, len(result.Products), result.Total, result.HasMore)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 12, "products per page")
	cmd.Flags().StringVar(&search, "search", "", "search term (name or category)")
	cmd.Flags().StringVar(&category, "category", "", "category filter")

	return cmd
}

func productsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a product by its stable id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			client := newClient()

			product, err := client.GetProduct(context.Background(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(product)
			}
			return printProductDetail(product)
		},
	}
}
