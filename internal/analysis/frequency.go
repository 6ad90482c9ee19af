// Package analysis turns joined label annotations into per-group label
// frequencies, ranks the labels each group over-expresses and rolls labels
// up into per-person category means.
package analysis

import (
	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/roster"
)

// FrequencyTable counts label occurrences and remembers the order in which
// labels were first seen, so rankings built from it are deterministic.
type FrequencyTable struct {
	counts map[string]int
	order  []string
	total  int
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

// Add counts one occurrence of label. Labels are compared exactly.
func (t *FrequencyTable) Add(label string) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
	t.total++
}

// Count returns the occurrences of label, 0 when never seen.
func (t *FrequencyTable) Count(label string) int {
	return t.counts[label]
}

// Labels returns the distinct labels in first-seen order.
func (t *FrequencyTable) Labels() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of distinct labels.
func (t *FrequencyTable) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *FrequencyTable) Total() int {
	return t.total
}

// Frequencies holds one table and one population per group.
type Frequencies struct {
	Tables     map[roster.Group]*FrequencyTable
	Population map[roster.Group]int
}

// Table returns the table of g, never nil.
func (f Frequencies) Table(g roster.Group) *FrequencyTable {
	if t, ok := f.Tables[g]; ok && t != nil {
		return t
	}
	return NewFrequencyTable()
}

// PopulationSource reports the number of distinct people in a group.
type PopulationSource interface {
	Population(g roster.Group) int
}

// AggregateFrequencies counts every label occurrence of every record in the
// table of the record's group. Populations are taken from pop.
func AggregateFrequencies(records []annotation.GroupedRecord, pop PopulationSource) Frequencies {
	f := Frequencies{
		Tables:     make(map[roster.Group]*FrequencyTable, len(roster.Groups)),
		Population: make(map[roster.Group]int, len(roster.Groups)),
	}
	for _, g := range roster.Groups {
		f.Tables[g] = NewFrequencyTable()
		f.Population[g] = pop.Population(g)
	}

	for _, rec := range records {
		table := f.Tables[rec.Group]
		for _, label := range rec.Texts() {
			table.Add(label)
		}
	}
	return f
}
