package analysis

import (
	"maps"
	"slices"
	"strings"

	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/roster"
)

// CategoryCounts holds per-group category occurrence counts and the mean
// count per person.
type CategoryCounts struct {
	Counts     map[roster.Group]map[string]int
	Means      map[roster.Group]map[string]float64
	Population map[roster.Group]int
}

// Categories returns every category seen in any group, sorted.
func (c CategoryCounts) Categories() []string {
	seen := make(map[string]struct{})
	for _, counts := range c.Counts {
		for cat := range counts {
			seen[cat] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// CategoryLookup maps a label to its category.
type CategoryLookup interface {
	Category(label string) (string, error)
	Missing(labels []string) []string
}

// AggregateCategories counts the category of every label occurrence per
// group and divides by the group population. Every label must be in the
// catalog; the error for a miss lists all missing labels. A group with no
// people is a configuration error.
func AggregateCategories(records []annotation.GroupedRecord, cat CategoryLookup, pop PopulationSource) (CategoryCounts, error) {
	c := CategoryCounts{
		Counts:     make(map[roster.Group]map[string]int, len(roster.Groups)),
		Means:      make(map[roster.Group]map[string]float64, len(roster.Groups)),
		Population: make(map[roster.Group]int, len(roster.Groups)),
	}
	for _, g := range roster.Groups {
		n := pop.Population(g)
		if n == 0 {
			return CategoryCounts{}, errors.Newf("analysis: group %s has no people in the roster", g).
				Component(component).
				Category(errors.CategoryConfiguration).
				Context("group", string(g)).
				Build()
		}
		c.Population[g] = n
		c.Counts[g] = make(map[string]int)
		c.Means[g] = make(map[string]float64)
	}

	var labels []string
	for _, rec := range records {
		labels = append(labels, rec.Texts()...)
	}
	if missing := cat.Missing(labels); len(missing) > 0 {
		return CategoryCounts{}, errors.Newf("analysis: %d labels not found in label catalog: %s",
			len(missing), strings.Join(missing, ", ")).
			Component(component).
			Category(errors.CategoryNotFound).
			Context("mapping", "label catalog").
			Context("missing", missing).
			Build()
	}

	for _, rec := range records {
		counts := c.Counts[rec.Group]
		for _, label := range rec.Texts() {
			category, err := cat.Category(label)
			if err != nil {
				return CategoryCounts{}, err
			}
			counts[category]++
		}
	}

	for g, counts := range c.Counts {
		for category, n := range counts {
			c.Means[g][category] = float64(n) / float64(c.Population[g])
		}
	}
	return c, nil
}
