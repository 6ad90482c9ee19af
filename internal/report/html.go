package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/roster"
)

// TopLabelsHTMLFile is the interactive chart page for both groups.
const TopLabelsHTMLFile = "top_labels.html"

// topLabelsBar builds the echarts bar chart of one ranking, bars horizontal.
func topLabelsBar(home roster.Group, rows []analysis.Disparity) *charts.Bar {
	names := make([]string, len(rows))
	homeData := make([]opts.BarData, len(rows))
	otherData := make([]opts.BarData, len(rows))
	for i, d := range rows {
		names[i] = d.Label
		homeData[i] = opts.BarData{Name: d.Label, Value: d.HomeRate}
		otherData[i] = opts.BarData{Name: d.Label, Value: d.OtherRate}
	}

	height := max(len(rows), 4)*28 + 160
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: fmt.Sprintf("%dpx", height)}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Labels over-represented for %s", home),
			Subtitle: fmt.Sprintf("%d labels, occurrences per 100 people", len(rows)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
	)
	bar.SetXAxis(names).
		AddSeries(string(home), homeData).
		AddSeries(string(home.Other()), otherData)
	bar.XYReversal()
	return bar
}

// WriteTopLabelsHTML renders both rankings on one page.
func WriteTopLabelsHTML(w io.Writer, ranked map[roster.Group][]analysis.Disparity) error {
	page := components.NewPage()
	page.PageTitle = "labelgap: top labels"
	for _, g := range roster.Groups {
		page.AddCharts(topLabelsBar(g, ranked[g]))
	}
	return page.Render(w)
}
