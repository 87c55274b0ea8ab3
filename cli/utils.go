package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/engine/core"
	"github.com/gantryhq/gantry/engine/platform"
	"github.com/gantryhq/gantry/engine/project"
	"github.com/gantryhq/gantry/pkg/logger"
)

// loadEnvFile loads environment variables from the --env-file path. A
// missing file is tolerated so the default .env works without one existing.
func loadEnvFile(cmd *cobra.Command) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return nil
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return fmt.Errorf("failed to resolve env file path: %w", err)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("env file path %q is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return nil
}

// loadProject reads platform settings from the process environment and the
// service manifest named by the persistent flags.
func loadProject(cmd *cobra.Command) (*project.Manifest, *platform.Settings, error) {
	ctx := cmd.Context()
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	envFlag, err := cmd.Flags().GetString("environment")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get environment flag: %w", err)
	}
	settings, err := platform.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	manifest, err := project.Load(ctx, manifestPath, core.Environment(envFlag))
	if err != nil {
		return nil, nil, err
	}
	logger.FromContext(ctx).Debug("loaded service manifest",
		"service", manifest.ServiceName, "environment", manifest.Environment)
	return manifest, settings, nil
}

// contextOverrides decodes repeated --context key=value pairs into a partial
// component context.
func contextOverrides(cmd *cobra.Command) (*core.ComponentContext, error) {
	pairs, err := cmd.Flags().GetStringArray("context")
	if err != nil {
		return nil, fmt.Errorf("failed to get context flag: %w", err)
	}
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context override %q, expected key=value", pair)
		}
		values[key] = value
	}
	override, err := core.FromMapDefault[*core.ComponentContext](values)
	if err != nil {
		return nil, fmt.Errorf("failed to decode context overrides: %w", err)
	}
	return override, nil
}
