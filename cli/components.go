package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/engine/registry"
)

// ComponentsCmd lists the registered component types.
func ComponentsCmd(reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the component types this binary can resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tDESCRIPTION")
			for _, def := range reg.List() {
				fmt.Fprintf(w, "%s\t%s\n", def.Type, def.Description)
			}
			return w.Flush()
		},
	}
}
