// Package annotation holds per-image label annotations produced by the
// labeling service, reads and writes the replicated annotation table, and
// joins annotations to roster groups.
package annotation

import (
	"strings"

	"github.com/tphakala/labelgap/internal/roster"
)

// Label is one (label text, confidence) pair returned for an image.
type Label struct {
	Text  string
	Score float64 // confidence in [0,1]
}

// Record is the ordered label list for one image.
type Record struct {
	ImageID string
	Labels  []Label
}

// Texts returns the trimmed label texts in service order.
func (r Record) Texts() []string {
	texts := make([]string, 0, len(r.Labels))
	for _, l := range r.Labels {
		texts = append(texts, strings.TrimSpace(l.Text))
	}
	return texts
}

// GroupedRecord is a record joined to the group of its image.
type GroupedRecord struct {
	Record
	Group roster.Group
}
