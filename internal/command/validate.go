package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osgameclones/osgc/internal/output"
	"github.com/osgameclones/osgc/internal/site"
)

// ValidateCommand handles the osgc validate command
type ValidateCommand struct{}

// NewValidateCommand creates a new osgc validate command
func NewValidateCommand(groupId string) *cobra.Command {
	vc := &ValidateCommand{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset without writing anything",
		Long: `Check every record against the schemas, then check that every clone
references known originals, that tools and only tools have the N/A status
and that no clone was added after its last update.

All problems of a pass are reported together.

Examples:
  # Validate the dataset in the current directory
  osgc validate

  # Validate against custom schemas
  osgc validate --schemas ./schema`,
		RunE:    vc.Run,
		GroupID: groupId,
	}

	cmd.Flags().Bool("quiet", false, "Suppress non-error output")

	return cmd
}

// Run executes the validate command
func (c *ValidateCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := RequireConfig(cmd.Context())
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	model, err := site.Load(cfg)
	if err != nil {
		return err
	}

	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), output.FormatTable, quiet)
	if len(model.Games) == 0 {
		printer.Warning(fmt.Sprintf("no original games found in %s", cfg.OriginalsDir()))
	}
	printer.Success(fmt.Sprintf("%d games and %d clones are valid", len(model.Games), len(model.UniqueClones())))
	return nil
}
