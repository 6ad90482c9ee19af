package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/roster"
)

// populations is a fixed PopulationSource.
type populations map[roster.Group]int

func (p populations) Population(g roster.Group) int {
	return p[g]
}

// grouped builds a joined record with unscored labels.
func grouped(id string, g roster.Group, labels ...string) annotation.GroupedRecord {
	rec := annotation.Record{ImageID: id}
	for _, l := range labels {
		rec.Labels = append(rec.Labels, annotation.Label{Text: l})
	}
	return annotation.GroupedRecord{Record: rec, Group: g}
}

// repeat returns label n times.
func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

// frequencies builds Frequencies from label counts given in insertion order.
func frequencies(t *testing.T, pop populations, female, male []labelCount) Frequencies {
	t.Helper()
	var records []annotation.GroupedRecord
	for _, lc := range female {
		records = append(records, grouped("f", roster.GroupFemale, repeat(lc.label, lc.n)...))
	}
	for _, lc := range male {
		records = append(records, grouped("m", roster.GroupMale, repeat(lc.label, lc.n)...))
	}
	f := AggregateFrequencies(records, pop)
	require.NotNil(t, f.Tables[roster.GroupFemale])
	return f
}

type labelCount struct {
	label string
	n     int
}
