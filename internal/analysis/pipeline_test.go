package analysis

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/observability/metrics"
	"github.com/tphakala/labelgap/internal/roster"
	"github.com/tphakala/labelgap/internal/testutil"
)

type fixture struct {
	settings *conf.Settings
	metrics  *metrics.AnalysisMetrics
}

func newFixture(t *testing.T, rosterRows, annotationRows, catalogRows []string) *fixture {
	t.Helper()
	dir := t.TempDir()

	write := func(name string, lines []string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
		return path
	}

	s := &conf.Settings{}
	s.Input.Roster = write("roster.tsv", append([]string{"header"}, rosterRows...))
	s.Input.Annotations = write("annotations.tsv", append([]string{"image_id\tlabels\tscores"}, annotationRows...))
	s.Input.Catalog = write("catalog.csv", catalogRows)
	s.Roster.IDColumn = 9
	s.Roster.IDPrefixLength = 9
	s.Roster.GroupColumn = 2
	s.Roster.Header = true
	s.Analysis.MinSupport = 1
	s.Analysis.TopN = 25

	m, err := metrics.NewAnalysisMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return &fixture{settings: s, metrics: m}
}

func defaultFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixture(t,
		[]string{
			testutil.RosterLine("Female", "Alice.jpg"),
			testutil.RosterLine("Female", "Carol.jpg"),
			testutil.RosterLine("Male", "Bob.jpg"),
			testutil.RosterLine("Male", "Dan.jpg"),
		},
		[]string{
			"Alice.jpg\tHair, Necklace, Smile\t0.9, 0.8, 0.7",
			"Carol.jpg\tHair, Smile\t0.9, 0.6",
			"Bob.jpg\tSuit, Tie\t0.9, 0.9",
			"Dan.jpg\tSuit, Smile\t0.8, 0.5",
		},
		[]string{
			"hair,appearance",
			"necklace,accessory",
			"smile,expression",
			"suit,clothing",
			"tie,clothing",
		},
	)
}

func TestPipelineTopLabels(t *testing.T) {
	t.Parallel()

	fx := defaultFixture(t)
	p := NewPipeline(fx.settings, fx.metrics)
	ctx := context.Background()

	in, err := p.LoadInputs(ctx, false)
	require.NoError(t, err)
	assert.Nil(t, in.Catalog)
	assert.Len(t, in.Annotations, 4)

	top, err := p.RunTopLabels(ctx, in)
	require.NoError(t, err)

	// Smile is 100% vs 50%, so it ranks for women but not for men.
	female := top.Ranked[roster.GroupFemale]
	require.Len(t, female, 3)
	assert.Equal(t, "Necklace", female[0].Label)
	assert.Equal(t, "Smile", female[1].Label)
	assert.Equal(t, "Hair", female[2].Label)
	assert.InDelta(t, 100, female[2].HomeRate, 1e-9)

	male := top.Ranked[roster.GroupMale]
	require.Len(t, male, 2)
	assert.Equal(t, "Tie", male[0].Label)
	assert.Equal(t, "Suit", male[1].Label)

	assert.InDelta(t, 1, promtestutil.ToFloat64(fx.metrics.StageTotal.WithLabelValues("rank", metrics.StatusSuccess)), 0)
	assert.InDelta(t, 2, promtestutil.ToFloat64(fx.metrics.Population.WithLabelValues("female")), 0)
	assert.InDelta(t, 5, promtestutil.ToFloat64(fx.metrics.LabelOccurrences.WithLabelValues("female")), 0)
}

func TestPipelineCategories(t *testing.T) {
	t.Parallel()

	fx := defaultFixture(t)
	p := NewPipeline(fx.settings, nil)
	ctx := context.Background()

	in, err := p.LoadInputs(ctx, true)
	require.NoError(t, err)
	require.NotNil(t, in.Catalog)

	counts, err := p.RunCategories(ctx, in)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, counts.Means[roster.GroupFemale]["appearance"], 1e-12)
	assert.InDelta(t, 1.5, counts.Means[roster.GroupMale]["clothing"], 1e-12)
	assert.InDelta(t, 0.5, counts.Means[roster.GroupMale]["expression"], 1e-12)
}

func TestPipelineCategoriesWithoutCatalog(t *testing.T) {
	t.Parallel()

	fx := defaultFixture(t)
	p := NewPipeline(fx.settings, nil)

	in, err := p.LoadInputs(context.Background(), false)
	require.NoError(t, err)

	_, err = p.RunCategories(context.Background(), in)
	assert.True(t, errors.IsConfiguration(err))
}

func TestPipelineUnknownImage(t *testing.T) {
	t.Parallel()

	fx := newFixture(t,
		[]string{testutil.RosterLine("Female", "Alice.jpg"), testutil.RosterLine("Male", "Bob.jpg")},
		[]string{"Alice.jpg\tHair\t0.9", "Eve.jpg\tHat\t0.8"},
		nil,
	)
	p := NewPipeline(fx.settings, fx.metrics)

	in, err := p.LoadInputs(context.Background(), false)
	require.NoError(t, err)

	top, err := p.RunTopLabels(context.Background(), in)
	require.Error(t, err)
	assert.Nil(t, top)
	assert.True(t, errors.IsNotFound(err))
	assert.InDelta(t, 1, promtestutil.ToFloat64(fx.metrics.StageErrors.WithLabelValues("join", "not-found")), 0)
}

func TestPipelineEmptyGroup(t *testing.T) {
	t.Parallel()

	fx := newFixture(t,
		[]string{testutil.RosterLine("Female", "Alice.jpg")},
		[]string{"Alice.jpg\tHair\t0.9"},
		[]string{"hair,appearance"},
	)
	p := NewPipeline(fx.settings, nil)

	in, err := p.LoadInputs(context.Background(), true)
	require.NoError(t, err)

	_, err = p.RunTopLabels(context.Background(), in)
	assert.True(t, errors.IsConfiguration(err))

	_, err = p.RunCategories(context.Background(), in)
	assert.True(t, errors.IsConfiguration(err))
}

func TestPipelineMissingInput(t *testing.T) {
	t.Parallel()

	fx := defaultFixture(t)
	fx.settings.Input.Roster = filepath.Join(t.TempDir(), "missing.tsv")

	_, err := NewPipeline(fx.settings, nil).LoadInputs(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestPipelineCanceled(t *testing.T) {
	t.Parallel()

	fx := defaultFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(fx.settings, nil).LoadInputs(ctx, false)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
	assert.ErrorIs(t, err, context.Canceled)
}
