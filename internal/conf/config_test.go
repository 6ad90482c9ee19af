package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/labelgap/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "debug: false\n")

	s, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9, s.Roster.IDColumn)
	assert.Equal(t, 9, s.Roster.IDPrefixLength)
	assert.Equal(t, 2, s.Roster.GroupColumn)
	assert.True(t, s.Roster.Header)
	assert.False(t, s.Catalog.Header)
	assert.Equal(t, 5, s.Analysis.MinSupport)
	assert.Equal(t, 25, s.Analysis.TopN)
	assert.Equal(t, 30*time.Second, s.Vision.Timeout)
	assert.Equal(t, 24*time.Hour, s.Vision.CacheTTL)
	assert.Equal(t, "info", s.Logging.Level)
	assert.True(t, s.Output.Charts.PNG)
	assert.Equal(t, "mc_data.tsv", s.Input.Roster)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
input:
  roster: people.tsv
analysis:
  minsupport: 2
  topn: 10
vision:
  timeout: 5s
  requestspersecond: 1.5
output:
  charts:
    html: false
`)

	s, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "people.tsv", s.Input.Roster)
	assert.Equal(t, 2, s.Analysis.MinSupport)
	assert.Equal(t, 10, s.Analysis.TopN)
	assert.Equal(t, 5*time.Second, s.Vision.Timeout)
	assert.InDelta(t, 1.5, s.Vision.RequestsPerSecond, 1e-9)
	assert.False(t, s.Output.Charts.HTML)
	assert.True(t, s.Output.Charts.PNG)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("LABELGAP_ANALYSIS_TOPN", "7")
	path := writeConfig(t, "analysis:\n  topn: 10\n")

	s, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 7, s.Analysis.TopN)
}

func TestLoadFlagOverride(t *testing.T) {
	v := viper.New()
	v.Set("analysis.minsupport", 3)
	path := writeConfig(t, "analysis:\n  minsupport: 8\n")

	s, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Analysis.MinSupport)
}

func TestLoadInvalidConfig(t *testing.T) {
	path := writeConfig(t, "analysis:\n  topn: 0\n")

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
	assert.Contains(t, err.Error(), "analysis.topn")
}

func TestLoadUnreadableConfig(t *testing.T) {
	path := writeConfig(t, "analysis: [unterminated\n")

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}
