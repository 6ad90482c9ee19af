// Package textnorm normalizes identifiers and labels so that the roster,
// the annotation table and the label catalog join on the same keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks is stateless and shared; cases.Caser is not, so Fold builds
// a caser per call.
var stripMarks = runes.Remove(runes.In(unicode.Mn))

// StripDiacritics decomposes s, drops combining marks and recomposes the
// remainder, so "José Núñez" becomes "Jose Nunez".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, stripMarks, norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold applies Unicode case folding.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Identifier returns the join key for a person or image identifier:
// case folded, stripped of diacritics, then trimmed. Folding runs first
// because folding can itself emit combining marks (U+0130 folds to
// "i" + U+0307). Trimming runs last because stripping a mark can expose
// whitespace at either end.
func Identifier(s string) string {
	return strings.TrimSpace(StripDiacritics(Fold(s)))
}

// LabelKey returns the catalog lookup key for a label: trimmed and case
// folded. Diacritics are kept since they can distinguish labels.
func LabelKey(s string) string {
	return Fold(strings.TrimSpace(s))
}
