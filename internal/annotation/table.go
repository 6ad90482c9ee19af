package annotation

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/textnorm"
)

const component = "annotation"

// listSeparator joins labels and scores inside one cell.
const listSeparator = ", "

// Header is the first row of the replicated annotation table.
var Header = []string{"image_id", "labels", "scores"}

// ReadOptions configures Read.
type ReadOptions struct {
	Source string
}

// ReadFile opens path and reads it with Read.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileError(component, err, path)
	}
	defer f.Close()

	return Read(f, ReadOptions{Source: path})
}

// Read parses the tab-separated replicated annotation table. The first row
// is a header. Each data row has an image identifier, a comma-joined label
// list and a comma-joined score list aligned with the labels.
func Read(in io.Reader, opts ReadOptions) ([]Record, error) {
	reader := csv.NewReader(in)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []Record
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errors.MalformedRowError(component, opts.Source, row, "%v", err)
		}
		if row == 1 {
			continue
		}

		rec, err := parseRow(fields, opts.Source, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	GetLogger().Info("Annotation table read",
		logger.String("source", opts.Source),
		logger.Int("images", len(records)))

	return records, nil
}

func parseRow(fields []string, source string, row int) (Record, error) {
	if len(fields) < len(Header) {
		return Record{}, errors.MalformedRowError(component, source, row,
			"expected %d columns, got %d", len(Header), len(fields))
	}

	id := textnorm.Identifier(fields[0])
	if id == "" {
		return Record{}, errors.MalformedRowError(component, source, row, "empty image identifier")
	}

	texts := splitList(fields[1])
	scoreCells := splitList(fields[2])
	if len(scoreCells) > 0 && len(scoreCells) != len(texts) {
		return Record{}, errors.MalformedRowError(component, source, row,
			"%d labels but %d scores", len(texts), len(scoreCells))
	}

	rec := Record{ImageID: id, Labels: make([]Label, len(texts))}
	for i, text := range texts {
		rec.Labels[i].Text = text
		if len(scoreCells) == 0 {
			continue
		}
		score, err := strconv.ParseFloat(scoreCells[i], 64)
		if err != nil || score < 0 || score > 1 {
			return Record{}, errors.MalformedRowError(component, source, row,
				"score %q for label %q is not a number in [0,1]", scoreCells[i], text)
		}
		rec.Labels[i].Score = score
	}
	return rec, nil
}

// splitList splits a comma-joined cell into trimmed, non-empty items.
func splitList(cell string) []string {
	var items []string
	for item := range strings.SplitSeq(cell, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Writer writes the replicated annotation table.
type Writer struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewWriter returns a Writer that writes tab-separated rows to w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{w: cw}
}

// CheckLabels reports a label that would not read back as written: an
// empty text, which Read drops, or a text containing a comma, which Read
// splits.
func CheckLabels(labels []Label) error {
	for i, l := range labels {
		text := strings.TrimSpace(l.Text)
		if text != "" && !strings.Contains(text, ",") {
			continue
		}
		return errors.Newf("annotation: label %d %q cannot be stored in a comma-joined list", i+1, l.Text).
			Component(component).
			Category(errors.CategoryValidation).
			Context("label", l.Text).
			Build()
	}
	return nil
}

// Write appends one record, writing the header first if needed. Labels
// rejected by CheckLabels fail the write and nothing is written for the
// record.
func (w *Writer) Write(rec Record) error {
	if err := CheckLabels(rec.Labels); err != nil {
		return err
	}
	if !w.wroteHeader {
		if err := w.w.Write(Header); err != nil {
			return err
		}
		w.wroteHeader = true
	}

	texts := make([]string, len(rec.Labels))
	scores := make([]string, len(rec.Labels))
	for i, l := range rec.Labels {
		texts[i] = strings.TrimSpace(l.Text)
		scores[i] = strconv.FormatFloat(l.Score, 'f', -1, 64)
	}
	return w.w.Write([]string{rec.ImageID, strings.Join(texts, listSeparator), strings.Join(scores, listSeparator)})
}

// Flush writes buffered rows and reports any write error. A table with no
// records still gets its header.
func (w *Writer) Flush() error {
	if !w.wroteHeader {
		if err := w.w.Write(Header); err != nil {
			return err
		}
		w.wroteHeader = true
	}
	w.w.Flush()
	return w.w.Error()
}
