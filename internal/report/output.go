// Package report writes the results of a run: CSV and YAML tables, PNG and
// HTML charts, a run manifest and a console summary. Files are written to a
// staging directory and moved into the output directory only on Commit.
package report

import (
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
)

const component = "report"

// Output stages report files for one run.
type Output struct {
	fs      afero.Fs
	dir     string
	staging string
	files   []string
	done    bool
}

// NewOutput creates a staging directory next to dir on fs.
func NewOutput(fs afero.Fs, dir string) (*Output, error) {
	dir = filepath.Clean(dir)
	parent := filepath.Dir(dir)
	if err := fs.MkdirAll(parent, 0o755); err != nil {
		return nil, errors.FileError(component, err, parent)
	}

	staging, err := afero.TempDir(fs, parent, "."+filepath.Base(dir)+".staging-")
	if err != nil {
		return nil, errors.FileError(component, err, parent)
	}

	return &Output{fs: fs, dir: dir, staging: staging}, nil
}

// Dir returns the final output directory.
func (o *Output) Dir() string {
	return o.dir
}

// Files returns the names staged so far, sorted.
func (o *Output) Files() []string {
	return slices.Sorted(slices.Values(o.files))
}

// Write stages one file whose content is produced by fn.
func (o *Output) Write(name string, fn func(w io.Writer) error) error {
	if o.done {
		return errors.Newf("report: output already committed or discarded").
			Component(component).
			Category(errors.CategoryValidation).
			Build()
	}

	path := filepath.Join(o.staging, name)
	f, err := o.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.FileError(component, err, path)
	}

	if err := fn(f); err != nil {
		f.Close()
		return errors.New(err).
			Component(component).
			Context("file", name).
			Build()
	}
	if err := f.Close(); err != nil {
		return errors.FileError(component, err, path)
	}

	if !slices.Contains(o.files, name) {
		o.files = append(o.files, name)
	}
	return nil
}

// Commit moves every staged file into the output directory, replacing
// files of the same name, and removes the staging directory. Replaced
// files are kept in the staging directory until every file is in place;
// if a move fails, the output directory is restored to its prior state.
func (o *Output) Commit() error {
	if o.done {
		return nil
	}
	o.done = true
	defer o.fs.RemoveAll(o.staging)

	existed, err := afero.DirExists(o.fs, o.dir)
	if err != nil {
		return errors.FileError(component, err, o.dir)
	}
	if err := o.fs.MkdirAll(o.dir, 0o755); err != nil {
		return errors.FileError(component, err, o.dir)
	}

	var moved, replaced []string
	for _, name := range o.files {
		dst := filepath.Join(o.dir, name)
		exists, err := afero.Exists(o.fs, dst)
		if err == nil && exists {
			err = o.fs.Rename(dst, o.backupPath(name))
			if err == nil {
				replaced = append(replaced, name)
			}
		}
		if err == nil {
			err = o.fs.Rename(filepath.Join(o.staging, name), dst)
		}
		if err != nil {
			o.rollback(moved, replaced, !existed)
			return errors.FileError(component, err, dst)
		}
		moved = append(moved, name)
	}

	GetLogger().Info("Report written",
		logger.String("dir", o.dir),
		logger.Int("files", len(o.files)))
	return nil
}

// backupPath is where Commit keeps the file a staged file replaces.
func (o *Output) backupPath(name string) string {
	return filepath.Join(o.staging, ".replaced-"+name)
}

// rollback undoes a partial Commit: moved files are removed from the
// output directory and replaced files are put back.
func (o *Output) rollback(moved, replaced []string, createdDir bool) {
	log := GetLogger()
	for _, name := range moved {
		if err := o.fs.Remove(filepath.Join(o.dir, name)); err != nil {
			log.Error("Rollback could not remove file", logger.String("file", name), logger.Error(err))
		}
	}
	for _, name := range replaced {
		if err := o.fs.Rename(o.backupPath(name), filepath.Join(o.dir, name)); err != nil {
			log.Error("Rollback could not restore file", logger.String("file", name), logger.Error(err))
		}
	}
	if createdDir {
		if err := o.fs.RemoveAll(o.dir); err != nil {
			log.Error("Rollback could not remove output directory", logger.String("dir", o.dir), logger.Error(err))
		}
	}
	log.Warn("Report commit rolled back", logger.String("dir", o.dir), logger.Int("files", len(moved)))
}

// Discard removes the staging directory and everything in it.
func (o *Output) Discard() error {
	if o.done {
		return nil
	}
	o.done = true
	if err := o.fs.RemoveAll(o.staging); err != nil {
		return errors.FileError(component, err, o.staging)
	}
	GetLogger().Debug("Staged report discarded", logger.String("dir", o.dir))
	return nil
}
