package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Execute runs the swagger2webui CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swagger2webui <source> [output-name]",
		Short: "Generate an Open-WebUI tool module from a Swagger 2.0 document",
		Long: "swagger2webui converts a Swagger 2.0 JSON document (local file or http/https URL) " +
			"into a single-file Open-WebUI tool module with one callable per endpoint, " +
			"writing a timestamped copy and a stable _latest alias.",
		Example: strings.TrimSpace(`  swagger2webui ./petstore.json
  swagger2webui https://petstore.swagger.io/v2/swagger.json petstore_tool.py
  swagger2webui --out-dir ./tools --timeout 10s ./petstore.json`),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return newUsageError(fmt.Sprintf("a schema source (local path or http(s) URL) is required\n\n%s", cmd.UsageString()))
			}
			if len(args) > 2 {
				return newUsageError(fmt.Sprintf("at most two arguments are accepted: <source> [output-name]\n\n%s", cmd.UsageString()))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args)
			if err != nil {
				return err
			}
			return generateRunner(cmd, cfg)
		},
	}

	// Convert Cobra flag errors (like unknown flags) into friendly usage
	// errors that also show the command's help text.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})

	flags := cmd.Flags()
	flags.String("out-dir", "", "Output directory for generated modules (default \"generated_tools\")")
	flags.Duration("timeout", 0, "HTTP timeout for remote schema fetches (default 30s)")
	flags.StringP("config", "c", "", "Config file path (YAML)")
	flags.BoolP("verbose", "v", false, "Enable verbose output")

	return cmd
}

var generateRunner = runGenerate

func resolveConfig(cmd *cobra.Command, args []string) (*Config, error) {
	cfg := defaultConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := applyConfigFromFile(&cfg, configPath); err != nil {
			return nil, err
		}
	}

	if err := applyFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	cfg.Source = args[0]
	if len(args) > 1 {
		cfg.OutputName = args[1]
	}

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
