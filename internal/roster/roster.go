// Package roster loads the person roster that assigns every image
// identifier to a group.
package roster

import (
	"encoding/csv"
	"io"
	"os"
	"unicode/utf8"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/textnorm"
)

const component = "roster"

// Options describes the roster layout. Column indexes are 0-based.
type Options struct {
	IDColumn       int  // column holding the prefixed identifier
	IDPrefixLength int  // runes stripped from the start of the identifier cell
	GroupColumn    int  // column holding the group value
	Header         bool // skip the first row
	Source         string
}

// DefaultOptions returns the layout of the congress roster export.
func DefaultOptions() Options {
	return Options{
		IDColumn:       9,
		IDPrefixLength: 9,
		GroupColumn:    2,
		Header:         true,
	}
}

// Roster maps normalized identifiers to groups.
type Roster struct {
	groups     map[string]Group
	population map[Group]int
	rows       int
	duplicates int
}

// New builds a roster from an identifier → group mapping. Identifiers are
// normalized; groups must be valid.
func New(assignments map[string]Group) (*Roster, error) {
	r := &Roster{groups: make(map[string]Group, len(assignments))}
	for id, g := range assignments {
		if !g.Valid() {
			return nil, errors.Newf("roster: unknown group %q for %q", g, id).
				Component(component).
				Category(errors.CategoryValidation).
				Build()
		}
		r.groups[textnorm.Identifier(id)] = g
		r.rows++
	}
	r.countPopulation()
	return r, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts Options) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileError(component, err, path)
	}
	defer f.Close()

	opts.Source = path
	return Load(f, opts)
}

// Load reads a tab-separated roster. A row that lacks the identifier or
// group column, has an identifier shorter than the prefix, or carries an
// unknown group value fails the whole load. A repeated identifier
// overwrites the earlier row.
func Load(in io.Reader, opts Options) (*Roster, error) {
	if opts.IDColumn < 0 || opts.GroupColumn < 0 || opts.IDPrefixLength < 0 {
		return nil, errors.ConfigurationError(component, "roster: column indexes and prefix length must be non-negative")
	}

	reader := csv.NewReader(in)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	log := GetLogger()
	r := &Roster{groups: make(map[string]Group)}
	required := max(opts.IDColumn, opts.GroupColumn) + 1

	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.MalformedRowError(component, opts.Source, line, "%v", err)
		}
		if line == 1 && opts.Header {
			continue
		}

		if len(record) < required {
			return nil, errors.MalformedRowError(component, opts.Source, line,
				"expected at least %d columns, got %d", required, len(record))
		}

		cell := record[opts.IDColumn]
		if utf8.RuneCountInString(cell) < opts.IDPrefixLength {
			return nil, errors.MalformedRowError(component, opts.Source, line,
				"identifier %q is shorter than the %d character prefix", cell, opts.IDPrefixLength)
		}
		id := textnorm.Identifier(string([]rune(cell)[opts.IDPrefixLength:]))
		if id == "" {
			return nil, errors.MalformedRowError(component, opts.Source, line, "empty identifier")
		}

		group, ok := ParseGroup(record[opts.GroupColumn])
		if !ok {
			return nil, errors.MalformedRowError(component, opts.Source, line,
				"unknown group value %q", record[opts.GroupColumn])
		}

		if previous, seen := r.groups[id]; seen {
			r.duplicates++
			if previous != group {
				log.Warn("Duplicate roster identifier with conflicting group, keeping later row",
					logger.String("identifier", id),
					logger.String("previous_group", string(previous)),
					logger.String("group", string(group)),
					logger.Int("line", line))
			}
		}
		r.groups[id] = group
		r.rows++
	}

	r.countPopulation()

	log.Info("Roster loaded",
		logger.String("source", opts.Source),
		logger.Int("rows", r.rows),
		logger.Int("identifiers", len(r.groups)),
		logger.Int("duplicates", r.duplicates),
		logger.Int("population_female", r.population[GroupFemale]),
		logger.Int("population_male", r.population[GroupMale]))

	return r, nil
}

func (r *Roster) countPopulation() {
	r.population = make(map[Group]int, len(Groups))
	for _, g := range r.groups {
		r.population[g]++
	}
}

// Lookup returns the group of an identifier. The identifier is normalized
// before the lookup; a miss is a lookup error.
func (r *Roster) Lookup(id string) (Group, error) {
	key := textnorm.Identifier(id)
	g, ok := r.groups[key]
	if !ok {
		return "", errors.LookupError(component, "roster", key)
	}
	return g, nil
}

// Population returns the number of distinct identifiers assigned to g.
func (r *Roster) Population(g Group) int {
	return r.population[g]
}

// Len returns the number of distinct identifiers.
func (r *Roster) Len() int {
	return len(r.groups)
}

// Rows returns the number of data rows read, duplicates included.
func (r *Roster) Rows() int {
	return r.rows
}

// Duplicates returns how many rows repeated an earlier identifier.
func (r *Roster) Duplicates() int {
	return r.duplicates
}
