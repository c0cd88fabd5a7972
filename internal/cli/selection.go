package cli

import (
	"github.com/spf13/cobra"

	"github.com/videogen/outputs-preview/internal/catalog"
	"github.com/videogen/outputs-preview/internal/models"
)

// selectionFlags holds the repeated --category and --model flags.
type selectionFlags struct {
	categories []string
	models     []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.categories, "category", nil, "Category to include (repeatable, default: all)")
	cmd.Flags().StringArrayVar(&f.models, "model", nil, "Model to include (repeatable, default: all)")

	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.CategoryNames(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return catalog.Models(), cobra.ShellCompDirectiveNoFileComp
	})
}

// selection returns the chosen filters. An omitted flag selects everything,
// like the preselected form on the preview page.
func (f *selectionFlags) selection() models.Selection {
	sel := models.Selection{Categories: f.categories, Models: f.models}
	if len(sel.Categories) == 0 {
		sel.Categories = catalog.CategoryNames()
	}
	if len(sel.Models) == 0 {
		sel.Models = catalog.Models()
	}
	return sel
}
