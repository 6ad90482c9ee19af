package categories

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/labelgap/cmd/internal/flags"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/runner"
)

// Command creates the categories command.
func Command(ctx *conf.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Roll labels up into categories per person",
		Long: `Map every label occurrence to its category from the label catalog and
report the mean number of occurrences per person of each category for
each group. Any label missing from the catalog fails the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Analyze(cmd.Context(), ctx, cmd.Name(), runner.Selection{Categories: true}, cmd.OutOrStdout())
		},
	}

	flags.Catalog(cmd)
	flags.Console(cmd)

	return cmd
}
