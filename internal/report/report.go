package report

import (
	"io"

	"github.com/tphakala/labelgap/internal/analysis"
	"github.com/tphakala/labelgap/internal/roster"
)

// Options selects the optional chart outputs.
type Options struct {
	PNG  bool
	HTML bool
}

// WriteTopLabels stages the CSV of each group's ranking and the enabled
// charts.
func WriteTopLabels(out *Output, ranked map[roster.Group][]analysis.Disparity, opts Options) error {
	for _, g := range roster.Groups {
		rows := ranked[g]
		if err := out.Write(TopLabelsFile(g), func(w io.Writer) error {
			return WriteTopLabelsCSV(w, rows)
		}); err != nil {
			return err
		}

		if opts.PNG {
			if err := out.Write(TopLabelsPNGFile(g), func(w io.Writer) error {
				return WriteTopLabelsPNG(w, g, rows)
			}); err != nil {
				return err
			}
		}
	}

	if opts.HTML {
		return out.Write(TopLabelsHTMLFile, func(w io.Writer) error {
			return WriteTopLabelsHTML(w, ranked)
		})
	}
	return nil
}

// WriteCategories stages the category tables.
func WriteCategories(out *Output, c analysis.CategoryCounts) error {
	if err := out.Write(CategoriesCSVFile, func(w io.Writer) error {
		return WriteCategoriesCSV(w, c)
	}); err != nil {
		return err
	}
	return out.Write(CategoriesYAMLFile, func(w io.Writer) error {
		return WriteCategoriesYAML(w, c)
	})
}

// StageManifest stages the run manifest. The file list covers everything
// staged before it, plus the manifest itself.
func StageManifest(out *Output, m Manifest) error {
	m.Files = append(out.Files(), ManifestFile)
	return out.Write(ManifestFile, func(w io.Writer) error {
		return WriteManifest(w, m)
	})
}
