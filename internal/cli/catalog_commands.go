package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/videogen/outputs-preview/internal/catalog"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and their prompt folder numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), categoriesTable())
			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the generator models recognized in file names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), modelsTable())
			return nil
		},
	}
}

func categoriesTable() string {
	cats := catalog.Categories()
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		first, last := c.Folders[0], c.Folders[len(c.Folders)-1]
		rows = append(rows, []string{c.Name, fmt.Sprintf("%d-%d", first, last), strconv.Itoa(len(c.Folders))})
	}
	return renderTable([]string{"Category", "Folders", "Count"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight})
}

func modelsTable() string {
	names := catalog.Models()
	rows := make([][]string, 0, len(names))
	for i, m := range names {
		rows = append(rows, []string{strconv.Itoa(i + 1), m})
	}
	return renderTable([]string{"#", "Model"}, rows, []columnAlignment{alignRight, alignLeft})
}
