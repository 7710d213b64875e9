package commands

import (
	"github.com/spf13/cobra"

	"github.com/rowcache/rowcache-deploy/cmd/rowcache-deploy/handlers"
)

// Init returns the command for interactively creating a values file.
//
// Flags:
//
//	--output, -o: Path to output file (default "rowcache.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a values file",
		Long: `Interactively create a RowCache values file.

This command walks you through the choices that matter for a first
deployment:

  - Deployment name
  - Upstream database type (PostgreSQL or MySQL)
  - Query caching mode
  - Bundled versus external consensus store
  - Server memory limit

The generated YAML is fully expanded and explicit, so every tunable is
visible for manual editing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "rowcache.yaml", "Output file path")

	return cmd
}
