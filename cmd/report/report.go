package report

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/labelgap/cmd/internal/flags"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/runner"
)

// Command creates the report command, which runs both analyses into one
// output directory.
func Command(ctx *conf.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the label ranking and the category roll-up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := runner.Selection{TopLabels: true, Categories: true}
			return runner.Analyze(cmd.Context(), ctx, cmd.Name(), sel, cmd.OutOrStdout())
		},
	}

	flags.Ranking(cmd)
	flags.Catalog(cmd)
	flags.Console(cmd)

	return cmd
}
