// osgc validates the open source game clones dataset and builds the site data from it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osgameclones/osgc/internal/command"
	"github.com/osgameclones/osgc/internal/config"
	"github.com/osgameclones/osgc/internal/logger"
	"github.com/osgameclones/osgc/internal/output"
)

var (
	version     = "dev"
	globalFlags = struct {
		dataDir   string
		schemaDir string
		debug     bool
		noColor   bool
	}{}
)

func main() {
	color := true

	rootCmd := &cobra.Command{
		Use:   "osgc",
		Short: "osgc - Open source game clones dataset builder",
		Long: `osgc checks the originals/ and games/ YAML records of the game clones
dataset and turns them into the data the website is rendered from.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration from .env and the environment
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			if globalFlags.dataDir != "" {
				cfg.DataDir = globalFlags.dataDir
			}
			if globalFlags.schemaDir != "" {
				cfg.SchemaDir = globalFlags.schemaDir
			}
			if globalFlags.noColor {
				cfg.Color = false
			}
			// Re-validate after overrides
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			color = cfg.Color
			if globalFlags.debug {
				cfg.LogLevel = logger.DEBUG
			}
			logger.SetGlobalColor(cfg.Color)
			logger.SetGlobalLevel(cfg.LogLevel)

			cmd.SetContext(command.WithConfig(cmd.Context(), cfg))
			return nil
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&globalFlags.dataDir, "data", "",
		"Dataset directory holding originals/ and games/ (default: $OSGC_DATA_DIR or .)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.schemaDir, "schemas", "",
		"Directory with games.yaml and originals.yaml schemas (default: built-in)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.debug, "debug", false, "Enable debug output (overrides $OSGC_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "dataset",
		Title: "Dataset Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "report",
		Title: "Reports:",
	})

	rootCmd.AddCommand(
		command.NewValidateCommand("dataset"),
		command.NewBuildCommand("dataset"),
		command.NewStatsCommand("report"),
	)

	rootCmd.SetVersionTemplate("osgc version {{.Version}}\n")

	if err := rootCmd.Execute(); err != nil {
		printer := output.NewPrinterWithWriter(os.Stderr, output.FormatTable, false)
		printer.SetColor(color && !globalFlags.noColor)
		printer.PrintError(err)
		os.Exit(1)
	}
}
