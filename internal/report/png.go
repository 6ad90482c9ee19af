package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/roster"
)

// TopLabelsPNGFile returns the PNG file name of a group's chart.
func TopLabelsPNGFile(g roster.Group) string {
	return "top_labels_" + g.Slug() + ".png"
}

const (
	chartWidth  = 10 * vg.Inch
	rowHeight   = 0.35 * vg.Inch
	chartMargin = 1.5 * vg.Inch
)

var barWidth = vg.Points(8)

// TopLabelsPlot builds a horizontal grouped bar chart of a group's ranking:
// one bar for the home rate and one for the other group's rate per label.
func TopLabelsPlot(home roster.Group, rows []analysis.Disparity) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Labels over-represented for %s", home)
	p.X.Label.Text = "Occurrences per 100 people (%)"
	p.X.Min = 0

	if len(rows) == 0 {
		p.Title.Text += " (none)"
		return p, nil
	}

	names := make([]string, len(rows))
	homeRates := make(plotter.Values, len(rows))
	otherRates := make(plotter.Values, len(rows))
	for i, d := range rows {
		names[i] = d.Label
		homeRates[i] = d.HomeRate
		otherRates[i] = d.OtherRate
	}

	homeBars, err := plotter.NewBarChart(homeRates, barWidth)
	if err != nil {
		return nil, err
	}
	homeBars.Horizontal = true
	homeBars.LineStyle.Width = vg.Length(0)
	homeBars.Color = plotutil.Color(0)
	homeBars.Offset = barWidth / 2

	otherBars, err := plotter.NewBarChart(otherRates, barWidth)
	if err != nil {
		return nil, err
	}
	otherBars.Horizontal = true
	otherBars.LineStyle.Width = vg.Length(0)
	otherBars.Color = plotutil.Color(1)
	otherBars.Offset = -barWidth / 2

	p.Add(homeBars, otherBars)
	p.Legend.Add(string(home), homeBars)
	p.Legend.Add(string(home.Other()), otherBars)
	p.Legend.Top = true
	p.NominalY(names...)

	return p, nil
}

// WriteTopLabelsPNG renders the chart of one ranking as PNG.
func WriteTopLabelsPNG(w io.Writer, home roster.Group, rows []analysis.Disparity) error {
	p, err := TopLabelsPlot(home, rows)
	if err != nil {
		return err
	}

	height := chartMargin + vg.Length(max(len(rows), 4))*rowHeight
	wt, err := p.WriterTo(chartWidth, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
