package cmd

import (
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories with product counts",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			client := newClient()

			categories, err := client.ListCategories(cobraCmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(categories)
			}
			return printCategoriesTable(categories)
		},
	}
}
