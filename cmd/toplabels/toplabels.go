package toplabels

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/labelgap/cmd/internal/flags"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/runner"
)

// Command creates the toplabels command.
func Command(ctx *conf.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toplabels",
		Short: "Rank the labels over-represented for each group",
		Long: `Count label occurrences per group, turn them into rates per 100 people
and rank the labels applied more often to each group by their chi-square
disparity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Analyze(cmd.Context(), ctx, cmd.Name(), runner.Selection{TopLabels: true}, cmd.OutOrStdout())
		},
	}

	flags.Ranking(cmd)
	flags.Console(cmd)

	return cmd
}
