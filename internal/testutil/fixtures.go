// Package testutil provides input fixtures shared by the package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RosterLine builds a roster row in the default layout: the group in
// column 2 and the identifier, behind a 9 character prefix, in column 9.
func RosterLine(group, id string) string {
	return strings.Join([]string{"n", "s", group, "p", "c", "t", "b", "u", "w", "File:wiki" + id}, "\t")
}

// WriteLines writes lines, newline terminated, to path and returns path.
// Missing parent directories are created.
func WriteLines(t *testing.T, path string, lines ...string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}
