package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/pkg/logger"
)

// Load reads a service manifest and, when the effective environment names
// one, merges the service.<env>.yaml overlay sitting next to it. A non-empty
// environment argument wins over the environment key in the file.
func Load(ctx context.Context, path string, environment core.Environment) (*Manifest, error) {
	manifest, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if environment != "" {
		manifest.Environment = environment
	}
	if overlay, ok := overlayPath(path, manifest.Environment); ok {
		overlayManifest, err := loadFile(overlay)
		if err != nil {
			return nil, err
		}
		if err := mergeManifests(manifest, overlayManifest); err != nil {
			return nil, fmt.Errorf("failed to apply overlay %s: %w", filepath.Base(overlay), err)
		}
		if environment != "" {
			manifest.Environment = environment
		}
		logger.FromContext(ctx).Debug("applied environment overlay", "path", overlay)
	}
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func loadFile(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open service manifest: %w", err)
	}
	defer file.Close()

	manifest := &Manifest{}
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(manifest); err != nil {
		return nil, fmt.Errorf("failed to decode service manifest %s: %w", filepath.Base(path), err)
	}
	return manifest, nil
}

// overlayPath derives service.<env>.yaml next to the base manifest and
// reports whether it exists.
func overlayPath(path string, env core.Environment) (string, bool) {
	if env == "" {
		return "", false
	}
	ext := filepath.Ext(path)
	overlay := fmt.Sprintf("%s.%s%s", strings.TrimSuffix(path, ext), env, ext)
	if _, err := os.Stat(overlay); err != nil {
		return "", false
	}
	return overlay, true
}

// mergeManifests overlays the env manifest onto the base. Scalar context
// fields follow override semantics; defaults blocks deep-merge per type;
// components merge by name so an overlay can adjust one entry without
// restating the rest.
func mergeManifests(base, overlay *Manifest) error {
	overlayComponents := overlay.Components
	overlay.Components = nil
	overlayDefaults := overlay.Defaults
	overlay.Defaults = nil

	if err := mergo.Merge(base, overlay, mergo.WithOverride); err != nil {
		return err
	}
	for componentType, defaults := range overlayDefaults {
		if base.Defaults == nil {
			base.Defaults = make(map[string]map[string]any, len(overlayDefaults))
		}
		base.Defaults[componentType] = core.DeepMergeMaps(base.Defaults[componentType], defaults)
	}
	for i := range overlayComponents {
		overlaySpec := &overlayComponents[i]
		merged := false
		for j := range base.Components {
			if base.Components[j].Name == overlaySpec.Name {
				if err := base.Components[j].Merge(overlaySpec); err != nil {
					return err
				}
				merged = true
				break
			}
		}
		if !merged {
			base.Components = append(base.Components, *overlaySpec)
		}
	}
	return nil
}
