package vision

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/labelgap/internal/annotation"
	"github.com/tphakala/labelgap/internal/errors"
)

// fakeSource answers from a content → labels table and records the order
// of the images it saw.
type fakeSource struct {
	mu     sync.Mutex
	labels map[string][]annotation.Label
	seen   []string
}

func (f *fakeSource) Annotate(_ context.Context, image []byte) ([]annotation.Label, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seen = append(f.seen, string(image))
	labels, ok := f.labels[string(image)]
	if !ok {
		return nil, errors.Newf("unknown image").Category(errors.CategoryImageProvider).Build()
	}
	return labels, nil
}

func writeImages(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestListImages(t *testing.T) {
	t.Parallel()

	dir := writeImages(t, map[string]string{
		"b.JPG":       "b",
		"a.png":       "a",
		".hidden.jpg": "h",
		"notes.txt":   "n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o700))

	names, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.JPG"}, names)
}

func TestListImagesMissingDir(t *testing.T) {
	t.Parallel()

	_, err := ListImages(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}

func TestAnnotateDirectory(t *testing.T) {
	t.Parallel()

	dir := writeImages(t, map[string]string{
		"Carol.jpg": "carol",
		"Alice.jpg": "alice",
		"Bob.jpg":   "bob",
	})
	src := &fakeSource{labels: map[string][]annotation.Label{
		"alice": {{Text: "Hair", Score: 0.9}, {Text: "Smile", Score: 0.75}},
		"bob":   {{Text: "Suit", Score: 0.8}},
		"carol": {},
	}}

	var out bytes.Buffer
	summary, err := AnnotateDirectory(context.Background(), src, dir, &out)
	require.NoError(t, err)

	assert.Equal(t, Summary{Images: 3, Annotated: 3}, summary)
	assert.Equal(t, []string{"alice", "bob", "carol"}, src.seen)

	records, err := annotation.Read(&out, annotation.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alice.jpg", records[0].ImageID)
	assert.Equal(t, []string{"Hair", "Smile"}, records[0].Texts())
	assert.Empty(t, records[2].Labels)
}

func TestAnnotateDirectoryPartialFailure(t *testing.T) {
	t.Parallel()

	dir := writeImages(t, map[string]string{
		"a.jpg": "alice",
		"b.jpg": "broken",
		"c.jpg": "carol",
	})
	src := &fakeSource{labels: map[string][]annotation.Label{
		"alice": {{Text: "Hair", Score: 0.9}},
		"carol": {{Text: "Glasses", Score: 0.6}},
	}}

	var out bytes.Buffer
	summary, err := AnnotateDirectory(context.Background(), src, dir, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryImageProvider))
	assert.Contains(t, err.Error(), "1 of 3")

	assert.Equal(t, 2, summary.Annotated)
	assert.Equal(t, []string{"b.jpg"}, summary.Failed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "a.jpg\t"))
	assert.True(t, strings.HasPrefix(lines[2], "c.jpg\t"))
}

func TestAnnotateDirectoryUnstorableLabel(t *testing.T) {
	t.Parallel()

	dir := writeImages(t, map[string]string{
		"a.jpg": "alice",
		"b.jpg": "bob",
	})
	src := &fakeSource{labels: map[string][]annotation.Label{
		"alice": {{Text: "Hair", Score: 0.9}},
		"bob":   {{Text: "Suit, jacket", Score: 0.8}},
	}}

	var out bytes.Buffer
	summary, err := AnnotateDirectory(context.Background(), src, dir, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryImageProvider))
	assert.Equal(t, []string{"b.jpg"}, summary.Failed)

	records, err := annotation.Read(&out, annotation.ReadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a.jpg", records[0].ImageID)
}

func TestAnnotateDirectoryCanceled(t *testing.T) {
	t.Parallel()

	dir := writeImages(t, map[string]string{"a.jpg": "alice"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	_, err := AnnotateDirectory(ctx, &fakeSource{}, dir, &out)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryCancellation))
}
