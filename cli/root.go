package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gantryhq/gantry/engine/bundle"
	"github.com/gantryhq/gantry/engine/dynamodb"
	"github.com/gantryhq/gantry/engine/registry"
	"github.com/gantryhq/gantry/pkg/logger"
	"github.com/gantryhq/gantry/pkg/version"
)

// RootCmd assembles the gantry command tree. Every subcommand works against
// the same component registry built here.
func RootCmd() *cobra.Command {
	reg, err := defaultRegistry()
	if err != nil {
		// The built-in set registers once; a failure here is a programming
		// error, not bad user input.
		panic(err)
	}

	root := &cobra.Command{
		Use:   "gantry",
		Short: "Resolve platform component configuration",
		Long: "Gantry folds schema defaults, hardcoded fallbacks, platform settings,\n" +
			"environment defaults, compliance defaults and the service manifest into\n" +
			"fully validated component configurations.",
		Version:      version.GetVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupContext(cmd)
		},
	}

	root.PersistentFlags().StringP("manifest", "f", "service.yaml", "Path to the service manifest")
	root.PersistentFlags().StringP("environment", "e", "", "Target environment override (dev, staging, prod)")
	root.PersistentFlags().String("env-file", ".env", "Env file loaded before platform settings are read")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().Bool("log-source", false, "Include source positions in logs")

	root.AddCommand(
		ResolveCmd(reg),
		ValidateCmd(reg),
		ComponentsCmd(reg),
		SchemasCmd(reg),
		VersionCmd(),
	)

	return root
}

func defaultRegistry() (*registry.Registry, error) {
	reg := registry.New()
	for _, register := range []func(*registry.Registry) error{
		bundle.Register,
		dynamodb.Register,
	} {
		if err := register(reg); err != nil {
			return nil, fmt.Errorf("failed to assemble component registry: %w", err)
		}
	}
	return reg, nil
}

// setupContext loads the optional env file and puts a configured logger on
// the command context before any subcommand runs.
func setupContext(cmd *cobra.Command) error {
	if err := loadEnvFile(cmd); err != nil {
		return err
	}
	logLevel, logJSON, logSource, err := logger.GetLoggerConfig(cmd)
	if err != nil {
		return err
	}
	logger.SetupLogger(logLevel, logJSON, logSource)
	cmd.SetContext(logger.ContextWithLogger(cmd.Context(), logger.GetDefault()))
	return nil
}
