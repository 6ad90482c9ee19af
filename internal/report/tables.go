package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/roster"
)

// TopLabelsFile returns the CSV file name of a group's ranking.
func TopLabelsFile(g roster.Group) string {
	return "top_labels_" + g.Slug() + ".csv"
}

const (
	CategoriesCSVFile  = "categories.csv"
	CategoriesYAMLFile = "categories.yaml"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteTopLabelsCSV writes one ranking as label, home_rate, other_rate,
// statistic, in ranking order.
func WriteTopLabelsCSV(w io.Writer, rows []analysis.Disparity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "home_rate", "other_rate", "statistic"}); err != nil {
		return err
	}
	for _, d := range rows {
		record := []string{d.Label, formatFloat(d.HomeRate), formatFloat(d.OtherRate), formatFloat(d.Statistic)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCategoriesCSV writes group, category, count, mean_per_person rows,
// groups in report order and categories sorted.
func WriteCategoriesCSV(w io.Writer, c analysis.CategoryCounts) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group", "category", "count", "mean_per_person"}); err != nil {
		return err
	}
	for _, g := range roster.Groups {
		for _, category := range c.Categories() {
			record := []string{
				string(g),
				category,
				strconv.Itoa(c.Counts[g][category]),
				formatFloat(c.Means[g][category]),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// categoryDocument is the YAML form of the category means.
type categoryDocument struct {
	Population map[string]int                `yaml:"population"`
	Means      map[string]map[string]float64 `yaml:"means"`
}

// WriteCategoriesYAML writes the population and per-person category means
// of each group.
func WriteCategoriesYAML(w io.Writer, c analysis.CategoryCounts) error {
	doc := categoryDocument{
		Population: make(map[string]int, len(c.Population)),
		Means:      make(map[string]map[string]float64, len(c.Means)),
	}
	for g, n := range c.Population {
		doc.Population[g.Slug()] = n
	}
	for g, means := range c.Means {
		doc.Means[g.Slug()] = means
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
