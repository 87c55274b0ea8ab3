package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/project"
	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/engine/resolver"
)

// ResolveCmd resolves one named component, or every component in the
// manifest, and prints the result.
func ResolveCmd(reg *registry.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [component]",
		Short: "Resolve component configuration through every layer",
		Long: "Resolve folds the default layers beneath the manifest spec, validates\n" +
			"the merged result and prints the final configuration.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, reg, args)
		},
	}
	cmd.Flags().String("format", OutputFormatJSON, "Output format (json, yaml, table)")
	cmd.Flags().String("query", "", "GJSON path evaluated against the resolved config")
	cmd.Flags().Bool("explain", false, "Include the winning layer for every resolved path")
	cmd.Flags().StringArray("context", nil, "Context override as key=value, repeatable")
	return cmd
}

func runResolve(cmd *cobra.Command, reg *registry.Registry, args []string) error {
	manifest, settings, err := loadProject(cmd)
	if err != nil {
		return err
	}
	override, err := contextOverrides(cmd)
	if err != nil {
		return err
	}
	if err := manifest.ApplyContext(override); err != nil {
		return err
	}
	requests, err := collectRequests(manifest, settings, args)
	if err != nil {
		return err
	}
	resolutions := make([]resolver.Resolution, 0, len(requests))
	for _, req := range requests {
		def, err := reg.Get(req.Spec.Type)
		if err != nil {
			return err
		}
		res, err := def.Build(cmd.Context(), req)
		if err != nil {
			return err
		}
		resolutions = append(resolutions, res)
	}
	query, err := cmd.Flags().GetString("query")
	if err != nil {
		return fmt.Errorf("failed to get query flag: %w", err)
	}
	if query != "" {
		return writeQuery(cmd, resolutions, query)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	explain, err := cmd.Flags().GetBool("explain")
	if err != nil {
		return fmt.Errorf("failed to get explain flag: %w", err)
	}
	return writeResolutions(cmd.OutOrStdout(), resolutions, format, explain)
}

func collectRequests(
	manifest *project.Manifest,
	settings *platform.Settings,
	args []string,
) ([]*resolver.Request, error) {
	if len(args) == 0 {
		return manifest.Requests(settings)
	}
	spec, err := manifest.Spec(args[0])
	if err != nil {
		return nil, err
	}
	return []*resolver.Request{{Context: manifest.Context(), Spec: spec, Settings: settings}}, nil
}

// writeQuery evaluates a gjson path against a single resolved config.
func writeQuery(cmd *cobra.Command, resolutions []resolver.Resolution, query string) error {
	if len(resolutions) != 1 {
		return fmt.Errorf("--query works on a single component, name one of the manifest entries")
	}
	raw, err := json.Marshal(resolutions[0].Raw())
	if err != nil {
		return fmt.Errorf("failed to marshal resolved config: %w", err)
	}
	result := gjson.GetBytes(raw, query)
	if !result.Exists() {
		return fmt.Errorf("query %q matched nothing in the resolved config", query)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.String())
	return nil
}
