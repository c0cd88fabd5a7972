package cli

import (
	"github.com/spf13/cobra"

	"github.com/videogen/outputs-preview/internal/web"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preview page",
		Long: `Authenticate to Drive, resolve the Outputs folder and serve the preview page.

Setup failures (unreadable secrets, rejected key, missing Outputs folder) stop
the command before the server starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}

			ctx := GetContext()
			browser, err := openBrowser(ctx, cfg)
			if err != nil {
				return err
			}

			log := GetLogger()
			return web.Serve(ctx, web.NewServer(browser, log), cfg.Server.Listen, log)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address (overrides server.listen)")
	return cmd
}
