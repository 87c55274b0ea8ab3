package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/pkg/schemagen"
)

// SchemasCmd exports the JSON schema catalog: one document per component
// type plus the service manifest schema.
func SchemasCmd(reg *registry.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Export JSON schemas for the manifest and all component types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			outDir, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to get out flag: %w", err)
			}
			return schemagen.NewGenerator(reg).Generate(cmd.Context(), outDir)
		},
	}
	cmd.Flags().String("out", "schemas", "Directory the schema files are written to")
	return cmd
}
