package commands

import (
	"github.com/spf13/cobra"

	"github.com/rowcache/rowcache-deploy/cmd/rowcache-deploy/handlers"
)

// Validate returns the command for validating a configuration without
// rendering anything.
func Validate() *cobra.Command {
	var (
		valuesFiles []string
		set         []string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long: `Validate the resolved configuration without rendering manifests.

Checks override paths against the schema, enumerated values, the quorum
bound, and the rule that exactly one of the bundled consensus store and an
external authority address is configured.

Examples:
  rowcache-deploy validate -f production.yaml
  rowcache-deploy validate -f production.yaml --set deployment.query_caching_mode=async`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(valuesFiles, set)
		},
	}

	cmd.Flags().StringArrayVarP(&valuesFiles, "values", "f", nil, "Values file (repeatable, merged in order)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "Override as key=value (repeatable)")

	return cmd
}
