// Package flags defines the flags shared by the analysis commands.
package flags

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/labelgap/internal/conf"
)

// Ranking adds the disparity ranking and chart flags.
func Ranking(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("min-support", 0, "Minimum occurrences in the home group for a label to be ranked")
	f.IntP("top", "n", 0, "Labels kept per group")
	f.Bool("png", true, "Write PNG charts")
	f.Bool("html", true, "Write the HTML chart page")

	cobra.CheckErr(conf.MarkFlags(f, map[string]string{
		"min-support": "analysis.minsupport",
		"top":         "analysis.topn",
		"png":         "output.charts.png",
		"html":        "output.charts.html",
	}))
}

// Catalog adds the label catalog flags.
func Catalog(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("catalog", "", "Label to category table")
	f.Bool("catalog-header", false, "The catalog starts with a header row")

	cobra.CheckErr(conf.MarkFlags(f, map[string]string{
		"catalog":        "input.catalog",
		"catalog-header": "catalog.header",
	}))
}

// Console adds the console summary flag.
func Console(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("console", true, "Print a summary to stdout")

	cobra.CheckErr(conf.MarkFlags(f, map[string]string{
		"console": "output.console",
	}))
}
