// Package vision labels images through the Google Cloud Vision API and
// writes the replicated annotation table for a directory of images.
package vision

import (
	"context"

	"github.com/tphakala/labelgap/internal/annotation"
)

// Source returns the ordered (label, confidence) pairs for one image.
type Source interface {
	Annotate(ctx context.Context, image []byte) ([]annotation.Label, error)
}
