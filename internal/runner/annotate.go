package runner

import (
	"context"
	"io"
	"path/filepath"

	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/observability/metrics"
	"github.com/tphakala/labelgap/internal/report"
	"github.com/tphakala/labelgap/internal/vision"
)

// NewVisionSource creates the Vision client described by the settings.
func NewVisionSource(ctx context.Context, c *conf.Context) (*vision.Client, error) {
	v := c.Settings.Vision
	var vm *metrics.VisionMetrics
	if c.Metrics != nil {
		vm = c.Metrics.Vision
	}
	return vision.NewClient(ctx, vision.Config{
		CredentialsFile:   v.CredentialsFile,
		Endpoint:          v.Endpoint,
		MaxResults:        v.MaxResults,
		Timeout:           v.Timeout,
		RequestsPerSecond: v.RequestsPerSecond,
		CacheTTL:          v.CacheTTL,
	}, vm)
}

// Annotate labels every image in the configured image directory through
// src and writes the annotation table to the configured annotations path.
// When some images fail the table still holds the others and the returned
// error names the failure count. Any other failure writes nothing.
func Annotate(ctx context.Context, c *conf.Context, src vision.Source) error {
	s := c.Settings
	ctx = logger.WithTraceID(ctx, c.RunID)
	defer writeMetrics(c)

	path := filepath.Clean(s.Input.Annotations)
	out, err := report.NewOutput(c.Fs, filepath.Dir(path))
	if err != nil {
		return err
	}
	defer func() { _ = out.Discard() }()

	var annotateErr error
	err = out.Write(filepath.Base(path), func(w io.Writer) error {
		_, annotateErr = vision.AnnotateDirectory(ctx, src, s.Input.Images, w)
		if annotateErr != nil && !errors.IsCategory(annotateErr, errors.CategoryImageProvider) {
			return annotateErr
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := out.Commit(); err != nil {
		return err
	}

	GetLogger().WithContext(ctx).Info("Annotation table written", logger.String("file", path))
	return annotateErr
}
