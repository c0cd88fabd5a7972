package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/videogen/outputs-preview/internal/constants"
	"github.com/videogen/outputs-preview/internal/credentials"
)

func newWrapCredentialsCmd() *cobra.Command {
	var (
		source string
		dest   string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "wrap-credentials",
		Short: "Convert a service-account JSON key into secrets.toml",
		Long: `Read a service-account JSON key and write it to a TOML secrets file as a
single [gcp_service_account] table. The browser commands read this file.

The destination is created with 0600 permissions. An existing destination is
left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credentials.Wrap(source, dest, force); err != nil {
				return err
			}
			GetLogger().Info().Str("source", source).Str("dest", dest).Msg("Wrote secrets file")
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", constants.DefaultCredentialSource, "Service-account JSON key")
	cmd.Flags().StringVarP(&dest, "dest", "o", constants.DefaultSecretsFile, "TOML secrets file to write")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing destination")
	return cmd
}
