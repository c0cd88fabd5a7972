package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/videogen/outputs-preview/internal/browse"
	"github.com/videogen/outputs-preview/internal/drive"
	"github.com/videogen/outputs-preview/internal/export"
	"github.com/videogen/outputs-preview/internal/progress"
)

func newExportCmd() *cobra.Command {
	var (
		sel       selectionFlags
		dir       string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download matched videos and prompts to a local directory",
		Long: `Run a search and write each matched video to DIR/<folder>/<file name> and
each prompt to DIR/<folder>/<folder>.txt. Existing files are skipped unless
--overwrite is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := GetContext()
			browser, err := openBrowser(ctx, cfg)
			if err != nil {
				return err
			}

			result, err := browser.Search(ctx, sel.selection(), browse.Options{})
			if err != nil {
				return err
			}
			if result.NoResults {
				fmt.Fprintln(cmd.OutOrStdout(), noResultsMessage)
				return nil
			}

			exp := export.New(browser, progress.New(os.Stderr), GetLogger())
			sum, err := exp.Export(ctx, result, export.Options{Dir: dir, Overwrite: overwrite})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files (%s), skipped %d existing\n",
				sum.Written, drive.FormatBytes(sum.Bytes), sum.Skipped)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "outputs", "Destination directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace files that already exist")
	return cmd
}
