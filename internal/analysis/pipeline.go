package analysis

import (
	"context"
	"time"

	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/catalog"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/observability/metrics"
	"github.com/tphakala/labelgap/internal/roster"
)

// Inputs are the tables one run works on. Catalog is nil when the run does
// not roll labels up into categories.
type Inputs struct {
	Roster      *roster.Roster
	Annotations []annotation.Record
	Catalog     *catalog.Catalog
}

// TopLabels is the result of the disparity ranking.
type TopLabels struct {
	Frequencies Frequencies
	Ranked      map[roster.Group][]Disparity
}

// Pipeline runs the analysis stages for one set of settings. Every stage
// takes its inputs as arguments and returns a fresh result.
type Pipeline struct {
	settings *conf.Settings
	metrics  *metrics.AnalysisMetrics
}

// NewPipeline creates a pipeline. m may be nil.
func NewPipeline(settings *conf.Settings, m *metrics.AnalysisMetrics) *Pipeline {
	return &Pipeline{settings: settings, metrics: m}
}

// RankOptions returns the ranking options from the settings.
func (p *Pipeline) RankOptions() RankOptions {
	return RankOptions{
		MinSupport: p.settings.Analysis.MinSupport,
		TopN:       p.settings.Analysis.TopN,
	}
}

// stage runs fn, logging and recording its outcome and duration.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return errors.New(err).
			Component(component).
			Category(errors.CategoryCancellation).
			Context("stage", name).
			Build()
	}

	log := GetLogger().WithContext(ctx)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	p.metrics.RecordStage(name, elapsed.Seconds(), err)
	if err != nil {
		log.Error("Stage failed",
			logger.String("stage", name),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
		return err
	}
	log.Debug("Stage completed",
		logger.String("stage", name),
		logger.Duration("elapsed", elapsed))
	return nil
}

// LoadInputs reads the roster and annotation table, and the catalog when
// withCatalog is set.
func (p *Pipeline) LoadInputs(ctx context.Context, withCatalog bool) (*Inputs, error) {
	in := &Inputs{}

	err := p.stage(ctx, "load_roster", func() error {
		opts := roster.Options{
			IDColumn:       p.settings.Roster.IDColumn,
			IDPrefixLength: p.settings.Roster.IDPrefixLength,
			GroupColumn:    p.settings.Roster.GroupColumn,
			Header:         p.settings.Roster.Header,
		}
		r, err := roster.LoadFile(p.settings.Input.Roster, opts)
		if err != nil {
			return err
		}
		in.Roster = r
		p.metrics.SetInputRows("roster", r.Rows())
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, "load_annotations", func() error {
		records, err := annotation.ReadFile(p.settings.Input.Annotations)
		if err != nil {
			return err
		}
		in.Annotations = records
		p.metrics.SetInputRows("annotations", len(records))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !withCatalog {
		return in, nil
	}

	err = p.stage(ctx, "load_catalog", func() error {
		c, err := catalog.LoadFile(p.settings.Input.Catalog, catalog.Options{Header: p.settings.Catalog.Header})
		if err != nil {
			return err
		}
		in.Catalog = c
		p.metrics.SetInputRows("catalog", c.Len())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

// Join attaches groups to the annotation records.
func (p *Pipeline) Join(ctx context.Context, in *Inputs) ([]annotation.GroupedRecord, error) {
	var joined []annotation.GroupedRecord
	err := p.stage(ctx, "join", func() error {
		var err error
		joined, err = annotation.Join(in.Annotations, in.Roster)
		return err
	})
	return joined, err
}

// RunTopLabels counts label frequencies and ranks both groups.
func (p *Pipeline) RunTopLabels(ctx context.Context, in *Inputs) (*TopLabels, error) {
	joined, err := p.Join(ctx, in)
	if err != nil {
		return nil, err
	}

	log := GetLogger().WithContext(ctx)
	result := &TopLabels{}

	err = p.stage(ctx, "frequencies", func() error {
		result.Frequencies = AggregateFrequencies(joined, in.Roster)
		for _, g := range roster.Groups {
			table := result.Frequencies.Table(g)
			p.metrics.SetGroupTotals(g.Slug(), result.Frequencies.Population[g], table.Total(), table.Len())
			log.Info("Label frequencies counted",
				logger.String("group", string(g)),
				logger.Int("population", result.Frequencies.Population[g]),
				logger.Int("label_occurrences", table.Total()),
				logger.Int("distinct_labels", table.Len()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	opts := p.RankOptions()
	err = p.stage(ctx, "rank", func() error {
		ranked, err := RankAll(result.Frequencies, opts)
		if err != nil {
			return err
		}
		result.Ranked = ranked
		for _, g := range roster.Groups {
			p.metrics.SetRankedLabels(g.Slug(), len(ranked[g]))
			log.Info("Disparity ranking built",
				logger.String("group", string(g)),
				logger.Int("labels", len(ranked[g])),
				logger.Int("min_support", opts.MinSupport),
				logger.Int("top_n", opts.TopN))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RunCategories rolls labels up into per-person category means.
func (p *Pipeline) RunCategories(ctx context.Context, in *Inputs) (CategoryCounts, error) {
	if in.Catalog == nil {
		return CategoryCounts{}, errors.ConfigurationError(component, "analysis: category roll-up needs a label catalog")
	}

	joined, err := p.Join(ctx, in)
	if err != nil {
		return CategoryCounts{}, err
	}

	var counts CategoryCounts
	err = p.stage(ctx, "categories", func() error {
		var err error
		counts, err = AggregateCategories(joined, in.Catalog, in.Roster)
		if err != nil {
			return err
		}
		for g, means := range counts.Means {
			for category, mean := range means {
				p.metrics.SetCategoryMean(g.Slug(), category, mean)
			}
		}
		GetLogger().WithContext(ctx).Info("Category means computed",
			logger.Int("categories", len(counts.Categories())))
		return nil
	})
	if err != nil {
		return CategoryCounts{}, err
	}
	return counts, nil
}
