// Package runner executes the labelgap commands: it loads the inputs,
// runs the analysis stages, and stages and commits the report files.
package runner

import (
	"context"
	"io"
	"time"

	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/observability/metrics"
	"github.com/tphakala/labelgap/internal/report"
	"github.com/tphakala/labelgap/internal/roster"
)

// Selection chooses the analyses of a run.
type Selection struct {
	TopLabels  bool
	Categories bool
}

// Analyze runs the selected analyses and commits their report files to the
// output directory. Nothing is written when any stage fails. Console
// summaries go to stdout when enabled.
func Analyze(ctx context.Context, c *conf.Context, command string, sel Selection, stdout io.Writer) error {
	s := c.Settings
	ctx = logger.WithTraceID(ctx, c.RunID)
	log := GetLogger().WithContext(ctx)
	defer writeMetrics(c)

	var am *metrics.AnalysisMetrics
	if c.Metrics != nil {
		am = c.Metrics.Analysis
	}
	p := analysis.NewPipeline(s, am)

	in, err := p.LoadInputs(ctx, sel.Categories)
	if err != nil {
		return err
	}

	out, err := report.NewOutput(c.Fs, s.Output.Dir)
	if err != nil {
		return err
	}
	defer func() { _ = out.Discard() }()

	var top *analysis.TopLabels
	if sel.TopLabels {
		top, err = p.RunTopLabels(ctx, in)
		if err != nil {
			return err
		}
		opts := report.Options{PNG: s.Output.Charts.PNG, HTML: s.Output.Charts.HTML}
		if err := report.WriteTopLabels(out, top.Ranked, opts); err != nil {
			return err
		}
	}

	var counts analysis.CategoryCounts
	if sel.Categories {
		counts, err = p.RunCategories(ctx, in)
		if err != nil {
			return err
		}
		if err := report.WriteCategories(out, counts); err != nil {
			return err
		}
	}

	if err := report.StageManifest(out, manifest(c, command, sel, in)); err != nil {
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}

	if s.Output.Console {
		if sel.TopLabels {
			if err := report.PrintTopLabels(stdout, top.Ranked); err != nil {
				return err
			}
		}
		if sel.Categories {
			if err := report.PrintCategories(stdout, counts); err != nil {
				return err
			}
		}
	}

	log.Info("Run completed",
		logger.String("command", command),
		logger.String("output", out.Dir()),
		logger.Duration("elapsed", time.Since(c.StartedAt)))
	return nil
}

func manifest(c *conf.Context, command string, sel Selection, in *analysis.Inputs) report.Manifest {
	s := c.Settings
	m := report.Manifest{
		RunID:      c.RunID,
		Command:    command,
		StartedAt:  c.StartedAt,
		FinishedAt: time.Now(),
		Inputs: report.ManifestInputs{
			Roster:      s.Input.Roster,
			Annotations: s.Input.Annotations,
		},
		Population: make(map[string]int, len(roster.Groups)),
	}
	if sel.TopLabels {
		m.MinSupport = s.Analysis.MinSupport
		m.TopN = s.Analysis.TopN
	}
	if sel.Categories {
		m.Inputs.Catalog = s.Input.Catalog
	}
	for _, g := range roster.Groups {
		m.Population[g.Slug()] = in.Roster.Population(g)
	}
	return m
}

// writeMetrics exports the collected metrics, on failure as well as on
// success.
func writeMetrics(c *conf.Context) {
	if c.Metrics == nil {
		return
	}
	if err := c.Metrics.WriteTextfile(c.Settings.Metrics.Textfile); err != nil {
		GetLogger().Warn("Metrics textfile not written", logger.Error(err))
	}
}
