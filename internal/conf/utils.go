package conf

import (
	"os"
	"path/filepath"
)

// DefaultConfigPaths returns the directories searched for config.yaml: the
// working directory, then the user configuration directory.
func DefaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "labelgap"))
	}
	return paths
}
