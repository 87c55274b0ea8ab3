package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/pkg/logger"
)

// validationReport is the wire shape of a passing validate run. Failures
// surface as errors instead, carrying the first violation.
type validationReport struct {
	Valid      bool             `json:"valid"`
	Components []validatedEntry `json:"components"`
}

type validatedEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ValidateCmd resolves every manifest component and reports the first
// violation, or a passing report when everything resolves.
func ValidateCmd(reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every component in the service manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, reg)
		},
	}
}

func runValidate(cmd *cobra.Command, reg *registry.Registry) error {
	manifest, settings, err := loadProject(cmd)
	if err != nil {
		return err
	}
	requests, err := manifest.Requests(settings)
	if err != nil {
		return err
	}
	report := validationReport{Valid: true, Components: make([]validatedEntry, 0, len(requests))}
	for _, req := range requests {
		def, err := reg.Get(req.Spec.Type)
		if err != nil {
			return err
		}
		if _, err := def.Build(cmd.Context(), req); err != nil {
			return err
		}
		report.Components = append(report.Components, validatedEntry{
			Name: req.Spec.Name,
			Type: req.Spec.Type.String(),
		})
	}
	logger.FromContext(cmd.Context()).Info("service manifest is valid",
		"service", manifest.ServiceName, "components", len(report.Components))
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
