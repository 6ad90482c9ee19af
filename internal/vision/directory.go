package vision

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
)

// imageExtensions are the file types sent to the service.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true, ".ico": true,
}

// Summary reports the outcome of annotating a directory.
type Summary struct {
	Images    int      // image files found
	Annotated int      // images written to the table
	Failed    []string // file names that could not be annotated
}

// ListImages returns the image files of dir sorted by name. Hidden files,
// subdirectories and non-image extensions are skipped.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.FileError(component, err, dir)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// AnnotateDirectory labels every image in dir through src and writes one
// table row per image to out, keyed by file name. A failed image is logged
// and skipped; the returned error names the number of failures after all
// successful images have been written.
func AnnotateDirectory(ctx context.Context, src Source, dir string, out io.Writer) (Summary, error) {
	log := GetLogger().WithContext(ctx)

	names, err := ListImages(dir)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Images: len(names)}

	w := annotation.NewWriter(out)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, errors.New(err).
				Component(component).
				Category(errors.CategoryCancellation).
				Context("annotated", summary.Annotated).
				Build()
		}

		labels, err := annotateFile(ctx, src, filepath.Join(dir, name))
		if err != nil {
			summary.Failed = append(summary.Failed, name)
			log.Error("Image annotation failed",
				logger.String("image", name),
				logger.Error(err))
			continue
		}

		for _, l := range labels {
			log.Debug(fmt.Sprintf("%s (%.2f%%)", l.Text, l.Score*100), logger.String("image", name))
		}

		if err := w.Write(annotation.Record{ImageID: name, Labels: labels}); err != nil {
			return summary, errors.New(err).
				Component(component).
				Category(errors.CategoryFileIO).
				Context("operation", "write-table").
				Build()
		}
		summary.Annotated++
	}

	if err := w.Flush(); err != nil {
		return summary, errors.New(err).
			Component(component).
			Category(errors.CategoryFileIO).
			Context("operation", "write-table").
			Build()
	}

	log.Info("Directory annotated",
		logger.String("dir", dir),
		logger.Int("images", summary.Images),
		logger.Int("annotated", summary.Annotated),
		logger.Int("failed", len(summary.Failed)))

	if len(summary.Failed) > 0 {
		return summary, errors.Newf("vision: %d of %d images could not be annotated", len(summary.Failed), summary.Images).
			Component(component).
			Category(errors.CategoryImageProvider).
			Context("failed", summary.Failed).
			Build()
	}
	return summary, nil
}

// annotateFile labels one image. Labels that the table cannot store are
// an image failure, not a table failure.
func annotateFile(ctx context.Context, src Source, path string) ([]annotation.Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileError(component, err, path)
	}
	labels, err := src.Annotate(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := annotation.CheckLabels(labels); err != nil {
		return nil, errors.New(err).
			Component(component).
			Category(errors.CategoryImageProvider).
			Context("image", filepath.Base(path)).
			Build()
	}
	return labels, nil
}
