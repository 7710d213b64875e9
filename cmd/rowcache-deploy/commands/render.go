package commands

import (
	"github.com/spf13/cobra"

	"github.com/rowcache/rowcache-deploy/cmd/rowcache-deploy/handlers"
)

// Render returns the command for rendering deployment manifests.
//
// Optional flags:
//
//	--values, -f: Values files merged over the defaults, in order (repeatable)
//	--set: key=value overrides applied last (repeatable)
//	--namespace, -n: Target namespace (default "default")
//	--output, -o: Output file (default stdout)
func Render() *cobra.Command {
	var opts handlers.RenderOptions

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the deployment manifests",
		Long: `Render the Kubernetes manifests for a RowCache deployment.

Overrides are merged over the built-in defaults with override-wins-at-leaf
semantics; unknown override paths fail the render. The full manifest
stream is written as multi-document YAML.

Examples:
  # Render with defaults plus a deployment name
  rowcache-deploy render --set deployment.name=my-cache

  # Render with a values file into a specific namespace
  rowcache-deploy render -f production.yaml -n rowcache

  # Write the manifests to a file
  rowcache-deploy render -f production.yaml -o manifests.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Render(opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.ValuesFiles, "values", "f", nil, "Values file (repeatable, merged in order)")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "Override as key=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Namespace, "namespace", "n", "default", "Target namespace")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
