// Package catalog loads the static label → category table used to roll
// label occurrences up into categories.
package catalog

import (
	"encoding/csv"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/textnorm"
)

const component = "catalog"

// Options describes the catalog layout.
type Options struct {
	Header bool // skip the first row
	Source string
}

// Catalog maps case-folded labels to category names.
type Catalog struct {
	categories map[string]string
}

// New builds a catalog from a label → category mapping.
func New(entries map[string]string) *Catalog {
	c := &Catalog{categories: make(map[string]string, len(entries))}
	for label, category := range entries {
		c.categories[textnorm.LabelKey(label)] = strings.TrimSpace(category)
	}
	return c
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileError(component, err, path)
	}
	defer f.Close()

	opts.Source = path
	return Load(f, opts)
}

// Load reads a comma-separated (label, category) table. Lines starting
// with '#' are comments. A label listed twice must name the same category.
func Load(in io.Reader, opts Options) (*Catalog, error) {
	reader := csv.NewReader(in)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	c := &Catalog{categories: make(map[string]string)}
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errors.MalformedRowError(component, opts.Source, row, "%v", err)
		}
		if row == 1 && opts.Header {
			continue
		}

		if len(record) < 2 {
			return nil, errors.MalformedRowError(component, opts.Source, row,
				"expected label and category, got %d columns", len(record))
		}

		key := textnorm.LabelKey(record[0])
		category := strings.TrimSpace(record[1])
		if key == "" || category == "" {
			return nil, errors.MalformedRowError(component, opts.Source, row, "empty label or category")
		}

		if existing, ok := c.categories[key]; ok && existing != category {
			return nil, errors.MalformedRowError(component, opts.Source, row,
				"label %q mapped to both %q and %q", key, existing, category)
		}
		c.categories[key] = category
	}

	GetLogger().Info("Label catalog loaded",
		logger.String("source", opts.Source),
		logger.Int("labels", len(c.categories)),
		logger.Int("categories", len(c.Categories())))

	return c, nil
}

// Category returns the category of label. The lookup is case-insensitive;
// a miss is a lookup error.
func (c *Catalog) Category(label string) (string, error) {
	key := textnorm.LabelKey(label)
	category, ok := c.categories[key]
	if !ok {
		return "", errors.LookupError(component, "label catalog", key)
	}
	return category, nil
}

// Missing returns the sorted, de-duplicated keys of labels that have no
// category.
func (c *Catalog) Missing(labels []string) []string {
	missing := make(map[string]struct{})
	for _, label := range labels {
		key := textnorm.LabelKey(label)
		if _, ok := c.categories[key]; !ok {
			missing[key] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(missing))
}

// Categories returns the distinct category names, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, category := range c.categories {
		seen[category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Len returns the number of labels in the catalog.
func (c *Catalog) Len() int {
	return len(c.categories)
}
