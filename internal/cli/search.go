package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/videogen/outputs-preview/internal/browse"
	"github.com/videogen/outputs-preview/internal/drive"
	"github.com/videogen/outputs-preview/internal/models"
)

const noResultsMessage = "No videos found. Check your folder numbers, names, and model filters."

func newSearchCmd() *cobra.Command {
	var (
		sel    selectionFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List matched videos as a table",
		Example: `  outputs-preview search --category "Causal Reasoning" --model "Kling AI"
  outputs-preview search --json`,
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

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printResult(w io.Writer, result *models.Result) {
	if result.NoResults {
		fmt.Fprintln(w, noResultsMessage)
		return
	}

	rows := make([][]string, 0)
	for _, s := range result.Sections {
		for _, v := range s.Videos {
			size := ""
			if v.Size > 0 {
				size = drive.FormatBytes(v.Size)
			}
			rows = append(rows, []string{strconv.Itoa(s.FolderNumber), v.Model, v.Title, size})
		}
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Folder", "Model", "File", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))

	for _, s := range result.Sections {
		if s.Prompt != "" {
			fmt.Fprintf(w, "Prompt %d : %s\n", s.FolderNumber, s.Prompt)
		}
	}
}
