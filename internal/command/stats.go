package command

import (
	"github.com/spf13/cobra"

	"github.com/osgameclones/osgc/internal/output"
	"github.com/osgameclones/osgc/internal/site"
)

// StatsCommand handles the osgc stats command
type StatsCommand struct{}

// NewStatsCommand creates a new osgc stats command
func NewStatsCommand(groupId string) *cobra.Command {
	sc := &StatsCommand{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dataset statistics",
		Long: `Show clone counts by type and status, facet sizes and the most used
frameworks with the languages their clones are written in.

Examples:
  # Top 10 frameworks
  osgc stats

  # Top 20 frameworks as JSON
  osgc stats --top 20 --format json`,
		RunE:    sc.Run,
		GroupID: groupId,
	}

	cmd.Flags().Int("top", 10, "Number of frameworks to list (0 for all)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	return cmd
}

// Run executes the stats command
func (c *StatsCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := RequireConfig(cmd.Context())
	if err != nil {
		return err
	}

	top, _ := cmd.Flags().GetInt("top")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	model, err := site.Load(cfg)
	if err != nil {
		return err
	}

	printer := output.NewPrinterWithWriter(cmd.OutOrStdout(), format, false)
	return printer.PrintStats(model.Stats(top))
}
