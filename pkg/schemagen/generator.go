package schemagen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/invopop/jsonschema"
	"golang.org/x/sync/errgroup"

	"github.com/gantryhq/gantry/engine/project"
	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/pkg/logger"
)

// ManifestSchemaFile is the file name of the service manifest schema.
const ManifestSchemaFile = "service-manifest.json"

// Generator writes the JSON schema catalog: one document per registered
// component type plus the service manifest envelope that references them.
type Generator struct {
	registry *registry.Registry
}

func NewGenerator(reg *registry.Registry) *Generator {
	return &Generator{registry: reg}
}

// Generate writes every schema document under outDir. Component schemas come
// straight from their registered definitions; the manifest schema is
// reflected from the Go struct so the two cannot drift.
func (g *Generator) Generate(ctx context.Context, outDir string) error {
	log := logger.FromContext(ctx)
	log.Info("Generating JSON schemas", "dir", outDir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	group.Go(func() error {
		schemaJSON, err := manifestSchema()
		if err != nil {
			return err
		}
		return writeSchema(log, outDir, ManifestSchemaFile, schemaJSON)
	})
	for _, def := range g.registry.List() {
		def := def
		group.Go(func() error {
			schemaJSON, err := componentSchema(def)
			if err != nil {
				return err
			}
			return writeSchema(log, outDir, def.Type.String()+".json", schemaJSON)
		})
	}
	return group.Wait()
}

// manifestSchema reflects the manifest struct into a draft-07 document.
func manifestSchema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
	}
	doc := reflector.Reflect(&project.Manifest{})
	doc.ID = jsonschema.ID(ManifestSchemaFile)
	doc.Version = "http://json-schema.org/draft-07/schema#"
	doc.Title = "Gantry Service Manifest"
	doc.Extras = map[string]any{"yamlCompatible": true}
	schemaJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest schema: %w", err)
	}
	return schemaJSON, nil
}

func componentSchema(def *registry.Definition) ([]byte, error) {
	schemaJSON, err := json.MarshalIndent(def.Schema.Doc(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %s: %w", def.Type, err)
	}
	return schemaJSON, nil
}

func writeSchema(log logger.Logger, outDir, name string, schemaJSON []byte) error {
	filePath := filepath.Join(outDir, name)
	if err := os.WriteFile(filePath, schemaJSON, 0o600); err != nil {
		return fmt.Errorf("failed to write schema to %s: %w", filePath, err)
	}
	log.Info("Generated schema", "file", filePath)
	return nil
}
