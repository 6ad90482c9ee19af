package report

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile describes the run that produced a report directory.
const ManifestFile = "run.yaml"

// Manifest records how a report was produced.
type Manifest struct {
	RunID      string         `yaml:"run_id"`
	Command    string         `yaml:"command"`
	StartedAt  time.Time      `yaml:"started_at"`
	FinishedAt time.Time      `yaml:"finished_at"`
	Inputs     ManifestInputs `yaml:"inputs"`
	MinSupport int            `yaml:"min_support,omitempty"`
	TopN       int            `yaml:"top_n,omitempty"`
	Population map[string]int `yaml:"population"`
	Files      []string       `yaml:"files"`
}

// ManifestInputs lists the input files of a run.
type ManifestInputs struct {
	Roster      string `yaml:"roster"`
	Annotations string `yaml:"annotations"`
	Catalog     string `yaml:"catalog,omitempty"`
}

// WriteManifest encodes m as YAML.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	err := yaml.NewDecoder(r).Decode(&m)
	return m, err
}
