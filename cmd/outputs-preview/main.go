// outputs-preview - browse generated videos stored in Google Drive.
package main

import (
	"os"
	"slices"

	"github.com/videogen/outputs-preview/internal/cli"
	"github.com/videogen/outputs-preview/internal/drive"
)

func main() {
	// --timing is accepted anywhere on the command line
	if i := slices.Index(os.Args, "--timing"); i > 0 {
		os.Setenv(drive.EnvTiming, "1")
		os.Args = slices.Delete(os.Args, i, i+1)
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
