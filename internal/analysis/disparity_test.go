package analysis

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/roster"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestChiSquare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		observed []float64
		want     float64
	}{
		{"empty", nil, 0},
		{"zero sum", []float64{0, 0}, 0},
		{"equal", []float64{100, 100}, 0},
		{"one sided", []float64{40, 0}, 40},
		{"two values", []float64{80, 10}, 70.0 * 70.0 / 90.0},
		{"three values", []float64{10, 20, 30}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ChiSquare(tt.observed), 1e-9)
		})
	}
}

// ChiSquare agrees with the closed form for two values and with gonum's
// goodness-of-fit statistic against an equal split.
func TestChiSquareMatchesReference(t *testing.T) {
	t.Parallel()

	pairs := [][2]float64{{1, 2}, {12.5, 3.25}, {100, 0}, {0.1, 0.7}, {55, 54}, {300, 150}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		got := ChiSquare([]float64{a, b})

		closed := (a - b) * (a - b) / (a + b)
		assert.InDelta(t, closed, got, 1e-9, "closed form for %v", p)

		e := (a + b) / 2
		ref := stat.ChiSquare([]float64{a, b}, []float64{e, e})
		assert.InDelta(t, ref, got, 1e-9, "gonum for %v", p)
	}
}

func TestRankDisparity(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 10, roster.GroupMale: 10}
	f := frequencies(t, pop,
		[]labelCount{{"hair", 8}, {"smile", 6}, {"suit", 5}, {"tie", 2}},
		[]labelCount{{"suit", 9}, {"hair", 1}, {"smile", 6}},
	)

	female, err := RankDisparity(f, roster.GroupFemale, DefaultRankOptions())
	require.NoError(t, err)
	want := []Disparity{{Label: "hair", HomeRate: 80, OtherRate: 10, Statistic: 70.0 * 70.0 / 90.0}}
	if diff := cmp.Diff(want, female, approx); diff != "" {
		t.Errorf("female ranking mismatch (-want +got):\n%s", diff)
	}

	male, err := RankDisparity(f, roster.GroupMale, DefaultRankOptions())
	require.NoError(t, err)
	want = []Disparity{{Label: "suit", HomeRate: 90, OtherRate: 50, Statistic: 40.0 * 40.0 / 140.0}}
	if diff := cmp.Diff(want, male, approx); diff != "" {
		t.Errorf("male ranking mismatch (-want +got):\n%s", diff)
	}
}

// Equal rates in both groups have a zero statistic and fail the
// directional filter in both directions.
func TestRankDisparityEqualRatesExcluded(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 1, roster.GroupMale: 1}
	f := frequencies(t, pop, []labelCount{{"hat", 1}}, []labelCount{{"hat", 1}})
	opts := RankOptions{MinSupport: 1, TopN: DefaultTopN}

	assert.InDelta(t, 0, ChiSquare([]float64{100, 100}), 0)
	for _, g := range roster.Groups {
		ranked, err := RankDisparity(f, g, opts)
		require.NoError(t, err)
		assert.Empty(t, ranked, "group %s", g)
	}
}

// Two hats on one woman's image and one on one man's: the rate counts
// occurrences per person, so the female side over-expresses the label.
func TestRankDisparityRepeatedLabelOnOneImage(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 1, roster.GroupMale: 1}
	f := frequencies(t, pop, []labelCount{{"hat", 2}}, []labelCount{{"hat", 1}})
	opts := RankOptions{MinSupport: 1, TopN: DefaultTopN}

	female, err := RankDisparity(f, roster.GroupFemale, opts)
	require.NoError(t, err)
	require.Len(t, female, 1)
	assert.InDelta(t, 200, female[0].HomeRate, 1e-9)
	assert.InDelta(t, 100, female[0].OtherRate, 1e-9)

	male, err := RankDisparity(f, roster.GroupMale, opts)
	require.NoError(t, err)
	assert.Empty(t, male)
}

func TestRankDisparityZeroPopulation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pop  populations
	}{
		{"male empty", populations{roster.GroupFemale: 3, roster.GroupMale: 0}},
		{"female empty", populations{roster.GroupFemale: 0, roster.GroupMale: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := frequencies(t, tt.pop, []labelCount{{"hat", 6}}, nil)
			for _, g := range roster.Groups {
				ranked, err := RankDisparity(f, g, DefaultRankOptions())
				require.Error(t, err)
				assert.True(t, errors.IsConfiguration(err))
				assert.Nil(t, ranked)
			}
		})
	}
}

func TestRankDisparityInvalidOptions(t *testing.T) {
	t.Parallel()

	f := frequencies(t, populations{roster.GroupFemale: 1, roster.GroupMale: 1}, nil, nil)

	_, err := RankDisparity(f, roster.GroupFemale, RankOptions{MinSupport: 0, TopN: 25})
	assert.True(t, errors.IsConfiguration(err))

	_, err = RankDisparity(f, roster.Group("Other"), DefaultRankOptions())
	assert.True(t, errors.IsConfiguration(err))
}

func TestRankDisparityTopN(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 10, roster.GroupMale: 10}
	f := frequencies(t, pop,
		[]labelCount{{"l6", 6}, {"l2", 2}, {"l5", 5}, {"l1", 1}, {"l4", 4}, {"l3", 3}},
		nil,
	)

	ranked, err := RankDisparity(f, roster.GroupFemale, RankOptions{MinSupport: 1, TopN: 3})
	require.NoError(t, err)

	labels := make([]string, len(ranked))
	for i, d := range ranked {
		labels[i] = d.Label
	}
	assert.Equal(t, []string{"l4", "l5", "l6"}, labels)
}

// Equal statistics keep table insertion order, so the last inserted of the
// tied labels survive the cut.
func TestRankDisparityTieBreak(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 10, roster.GroupMale: 10}
	f := frequencies(t, pop, []labelCount{{"a", 2}, {"b", 2}, {"c", 2}}, nil)

	ranked, err := RankDisparity(f, roster.GroupFemale, RankOptions{MinSupport: 1, TopN: 2})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].Label)
	assert.Equal(t, "c", ranked[1].Label)
}

// Properties over a larger synthetic table: never more than TopN rows,
// every row over-expressed at home, ascending home rate, repeatable.
func TestRankDisparityProperties(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 40, roster.GroupMale: 37}
	var female, male []labelCount
	for i := range 60 {
		label := fmt.Sprintf("label-%02d", i)
		female = append(female, labelCount{label, (i * 7) % 23})
		male = append(male, labelCount{label, (i * 11) % 19})
	}
	f := frequencies(t, pop, female, male)

	for _, g := range roster.Groups {
		first, err := RankDisparity(f, g, DefaultRankOptions())
		require.NoError(t, err)
		assert.LessOrEqual(t, len(first), DefaultTopN)
		assert.NotEmpty(t, first)

		for i, d := range first {
			assert.Greater(t, d.HomeRate, d.OtherRate, "%s %s", g, d.Label)
			assert.GreaterOrEqual(t, f.Table(g).Count(d.Label), DefaultMinSupport)
			if i > 0 {
				assert.LessOrEqual(t, first[i-1].HomeRate, d.HomeRate)
			}
		}

		second, err := RankDisparity(f, g, DefaultRankOptions())
		require.NoError(t, err)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("ranking for %s not deterministic:\n%s", g, diff)
		}
	}
}

func TestRankAll(t *testing.T) {
	t.Parallel()

	pop := populations{roster.GroupFemale: 10, roster.GroupMale: 10}
	f := frequencies(t, pop, []labelCount{{"hair", 8}}, []labelCount{{"suit", 9}})

	all, err := RankAll(f, DefaultRankOptions())
	require.NoError(t, err)
	require.Len(t, all[roster.GroupFemale], 1)
	require.Len(t, all[roster.GroupMale], 1)
	assert.Equal(t, "hair", all[roster.GroupFemale][0].Label)
	assert.Equal(t, "suit", all[roster.GroupMale][0].Label)

	_, err = RankAll(frequencies(t, populations{roster.GroupFemale: 1}, nil, nil), DefaultRankOptions())
	assert.True(t, errors.IsConfiguration(err))
}
