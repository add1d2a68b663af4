// Package command implements the osgc sub-commands
package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osgameclones/osgc/internal/export"
	"github.com/osgameclones/osgc/internal/logger"
	"github.com/osgameclones/osgc/internal/output"
	"github.com/osgameclones/osgc/internal/site"
)

// BuildCommand handles the osgc build command
type BuildCommand struct{}

// NewBuildCommand creates a new osgc build command
func NewBuildCommand(groupId string) *cobra.Command {
	bc := &BuildCommand{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate the dataset and write the site data",
		Long: `Validate every original and clone record, link clones to their originals
and write the aggregated data to the destination directory.

The destination is emptied first. It receives:
- <slug>/data.json for every original game
- _clones/<slug>.json for every clone
- facets.json with the genre, subgenre, theme and language tables
- index.json, the build manifest
- catalog.db, a SQLite catalog (unless --no-sqlite)

Examples:
  # Build into ./_build
  osgc build

  # Build another checkout into a custom directory
  osgc build --data ../osgameclones --dest /tmp/site`,
		RunE:    bc.Run,
		GroupID: groupId,
	}

	cmd.Flags().StringP("dest", "d", "", "Destination directory (default: $OSGC_OUTPUT_DIR or _build)")
	cmd.Flags().Bool("no-sqlite", false, "Skip writing the SQLite catalog")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	cmd.Flags().Bool("quiet", false, "Suppress non-error output")

	return cmd
}

// Run executes the build command
func (c *BuildCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := RequireConfig(cmd.Context())
	if err != nil {
		return err
	}

	dest, _ := cmd.Flags().GetString("dest")
	noSQLite, _ := cmd.Flags().GetBool("no-sqlite")
	formatFlag, _ := cmd.Flags().GetString("format")
	quiet, _ := cmd.Flags().GetBool("quiet")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	if dest != "" {
		cfg.OutputDir = dest
	}
	if noSQLite {
		cfg.SQLite = false
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	model, err := site.Load(cfg)
	if err != nil {
		return err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return err
	}

	manifest, err := export.WriteData(cfg.OutputDir, model)
	if err != nil {
		return fmt.Errorf("failed to write site data: %w", err)
	}
	logger.Info("wrote site data to %s", cfg.OutputDir)

	if cfg.SQLite {
		if err := export.WriteSQLite(cfg.CatalogPath(), model, manifest); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}
		logger.Info("wrote catalog to %s", cfg.CatalogPath())
	}

	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), format, quiet)
	if err := printer.PrintManifest(manifest); err != nil {
		return err
	}
	if format == output.FormatTable {
		if !cfg.SQLite {
			printer.Info("SQLite catalog skipped")
		}
		printer.Success(fmt.Sprintf("Built %d games into %s", manifest.Games, cfg.OutputDir))
	}

	return nil
}
