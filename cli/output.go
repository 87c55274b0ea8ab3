package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/gantryhq/gantry/engine/resolver"
)

// Output format constants
const (
	OutputFormatJSON  = "json"
	OutputFormatYAML  = "yaml"
	OutputFormatTable = "table"
)

// resolutionOutput is the wire shape of one resolved component.
type resolutionOutput struct {
	Component  string                    `json:"component"            yaml:"component"`
	Name       string                    `json:"name"                 yaml:"name"`
	Config     map[string]any            `json:"config"               yaml:"config"`
	Provenance map[string]resolver.Layer `json:"provenance,omitempty" yaml:"provenance,omitempty"`
}

func buildOutput(res resolver.Resolution, explain bool) resolutionOutput {
	out := resolutionOutput{
		Component: res.Component().String(),
		Name:      res.Name(),
		Config:    res.Raw(),
	}
	if explain {
		out.Provenance = res.Provenance()
	}
	return out
}

// writeResolutions renders resolved components in the requested format. One
// resolution prints as a single document, several as a list.
func writeResolutions(w io.Writer, resolutions []resolver.Resolution, format string, explain bool) error {
	switch format {
	case OutputFormatJSON:
		return writeJSON(w, resolutions, explain)
	case OutputFormatYAML:
		return writeYAML(w, resolutions, explain)
	case OutputFormatTable:
		return writeTable(w, resolutions, explain)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func outputPayload(resolutions []resolver.Resolution, explain bool) any {
	if len(resolutions) == 1 {
		return buildOutput(resolutions[0], explain)
	}
	outputs := make([]resolutionOutput, 0, len(resolutions))
	for _, res := range resolutions {
		outputs = append(outputs, buildOutput(res, explain))
	}
	return outputs
}

func writeJSON(w io.Writer, resolutions []resolver.Resolution, explain bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outputPayload(resolutions, explain))
}

func writeYAML(w io.Writer, resolutions []resolver.Resolution, explain bool) error {
	encoder := yaml.NewEncoder(w, yaml.Indent(2))
	if err := encoder.Encode(outputPayload(resolutions, explain)); err != nil {
		return fmt.Errorf("failed to encode yaml output: %w", err)
	}
	return encoder.Close()
}

func writeTable(w io.Writer, resolutions []resolver.Resolution, explain bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, res := range resolutions {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "# %s (%s)\n", res.Name(), res.Component())
		if explain {
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
		} else {
			fmt.Fprintln(tw, "KEY\tVALUE")
		}
		raw := res.Raw()
		for _, path := range res.ProvenancePaths() {
			value := lookupPath(raw, path)
			if explain {
				layer, _ := res.Source(path)
				fmt.Fprintf(tw, "%s\t%v\t%s\n", path, value, layer)
			} else {
				fmt.Fprintf(tw, "%s\t%v\n", path, value)
			}
		}
	}
	return tw.Flush()
}

// lookupPath walks a dotted path through nested maps; a missing segment
// returns nil.
func lookupPath(m map[string]any, path string) any {
	var current any = m
	for _, part := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = node[part]
	}
	return current
}
