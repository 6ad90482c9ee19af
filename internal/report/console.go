package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/roster"
)

// PrintCategories writes one block per group with the mean count per
// person of every category.
func PrintCategories(w io.Writer, c analysis.CategoryCounts) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	categories := c.Categories()
	for i, g := range roster.Groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (n=%d)\n", g, c.Population[g])
		for _, category := range categories {
			fmt.Fprintf(tw, "  %s\t%.3f\n", category, c.Means[g][category])
		}
	}
	return tw.Flush()
}

// PrintTopLabels writes each group's ranking, highest home rate first.
func PrintTopLabels(w io.Writer, ranked map[roster.Group][]analysis.Disparity) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, g := range roster.Groups {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		rows := ranked[g]
		fmt.Fprintf(tw, "%s: %d labels\n", g, len(rows))
		fmt.Fprintf(tw, "  label\t%s %%\t%s %%\tchi²\n", g, g.Other())
		for j := len(rows) - 1; j >= 0; j-- {
			d := rows[j]
			fmt.Fprintf(tw, "  %s\t%.2f\t%.2f\t%.2f\n", d.Label, d.HomeRate, d.OtherRate, d.Statistic)
		}
	}
	return tw.Flush()
}
