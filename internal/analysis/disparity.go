package analysis

import (
	"cmp"
	"slices"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/roster"
)

const (
	// DefaultMinSupport is the home-group count a label needs to be ranked.
	DefaultMinSupport = 5
	// DefaultTopN is the number of labels kept per group.
	DefaultTopN = 25
)

// Disparity is one ranked label of a home group. Rates are percentages of
// the group population.
type Disparity struct {
	Label     string
	HomeRate  float64
	OtherRate float64
	Statistic float64
}

// RankOptions configures RankDisparity.
type RankOptions struct {
	MinSupport int
	TopN       int
}

// DefaultRankOptions returns MinSupport 5 and TopN 25.
func DefaultRankOptions() RankOptions {
	return RankOptions{MinSupport: DefaultMinSupport, TopN: DefaultTopN}
}

// ChiSquare returns the goodness-of-fit statistic of observed against an
// equal split of its sum: Σ (O-E)²/E with E = sum/len. It returns 0 for an
// empty slice or a zero sum. For two values a and b this is (a-b)²/(a+b).
func ChiSquare(observed []float64) float64 {
	if len(observed) == 0 {
		return 0
	}
	var sum float64
	for _, o := range observed {
		sum += o
	}
	if sum == 0 {
		return 0
	}

	expected := sum / float64(len(observed))
	var stat float64
	for _, o := range observed {
		d := o - expected
		stat += d * d / expected
	}
	return stat
}

// Rate returns count as a percentage of population.
func Rate(count, population int) float64 {
	return float64(count) / float64(population) * 100
}

// RankDisparity ranks the labels that home over-expresses relative to the
// other group. Labels below MinSupport in home are ignored. The TopN labels
// with the largest statistic are returned ordered by ascending home rate.
func RankDisparity(f Frequencies, home roster.Group, opts RankOptions) ([]Disparity, error) {
	if !home.Valid() {
		return nil, errors.ConfigurationError(component, "analysis: unknown home group %q", home)
	}
	if opts.MinSupport < 1 || opts.TopN < 1 {
		return nil, errors.ConfigurationError(component,
			"analysis: min support (%d) and top N (%d) must be at least 1", opts.MinSupport, opts.TopN)
	}

	other := home.Other()
	homePop, otherPop := f.Population[home], f.Population[other]
	if homePop == 0 || otherPop == 0 {
		return nil, errors.Newf("analysis: group population is zero (%s=%d, %s=%d)", home, homePop, other, otherPop).
			Component(component).
			Category(errors.CategoryConfiguration).
			Context("home_group", string(home)).
			Context("home_population", homePop).
			Context("other_population", otherPop).
			Build()
	}

	homeTable, otherTable := f.Table(home), f.Table(other)

	var candidates []Disparity
	for _, label := range homeTable.Labels() {
		count := homeTable.Count(label)
		if count < opts.MinSupport {
			continue
		}

		d := Disparity{
			Label:     label,
			HomeRate:  Rate(count, homePop),
			OtherRate: Rate(otherTable.Count(label), otherPop),
		}
		if d.HomeRate <= d.OtherRate {
			continue
		}
		d.Statistic = ChiSquare([]float64{d.HomeRate, d.OtherRate})
		candidates = append(candidates, d)
	}

	slices.SortStableFunc(candidates, func(a, b Disparity) int {
		return cmp.Compare(a.Statistic, b.Statistic)
	})
	if len(candidates) > opts.TopN {
		candidates = candidates[len(candidates)-opts.TopN:]
	}

	top := slices.Clone(candidates)
	slices.SortStableFunc(top, func(a, b Disparity) int {
		return cmp.Compare(a.HomeRate, b.HomeRate)
	})
	return top, nil
}

// RankAll ranks both groups.
func RankAll(f Frequencies, opts RankOptions) (map[roster.Group][]Disparity, error) {
	out := make(map[roster.Group][]Disparity, len(roster.Groups))
	for _, g := range roster.Groups {
		ranked, err := RankDisparity(f, g, opts)
		if err != nil {
			return nil, err
		}
		out[g] = ranked
	}
	return out, nil
}
