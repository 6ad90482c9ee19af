// Package conf loads labelgap settings from config.yaml, LABELGAP_
// environment variables and command-line flags.
package conf

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tphakala/labelgap/internal/errors"
)

// Settings contains all configuration options for a run.
type Settings struct {
	Debug bool // true to enable debug logging

	Input struct {
		Roster      string // tab-separated person roster
		Annotations string // replicated annotation table, read by analysis and written by annotate
		Catalog     string // comma-separated label → category table
		Images      string // directory of images for annotate
	}

	Roster struct {
		IDColumn       int  // 0-based column holding the prefixed image identifier
		IDPrefixLength int  // characters stripped from the identifier cell
		GroupColumn    int  // 0-based column holding the group value
		Header         bool // first row is a header
	}

	Catalog struct {
		Header bool // first row is a header
	}

	Analysis struct {
		MinSupport int // home-group count a label needs to be ranked
		TopN       int // labels kept per group
	}

	Vision struct {
		CredentialsFile   string        // service account JSON, empty for application default credentials
		Endpoint          string        // API endpoint override, empty for the default
		MaxResults        int           // labels requested per image
		Timeout           time.Duration // per request
		RequestsPerSecond float64       // request pacing
		CacheTTL          time.Duration // lifetime of cached results for identical images
	}

	Output struct {
		Dir    string // directory receiving report files
		Charts struct {
			PNG  bool // write gonum/plot PNG charts
			HTML bool // write the echarts HTML page
		}
		Console bool // print the category report to stdout
	}

	Logging struct {
		Level string // debug, info, warn or error
		File  string // optional JSON log file
	}

	Metrics struct {
		Textfile string // optional Prometheus textfile path
	}

	Telemetry struct {
		Enabled bool   // report errors to Sentry
		DSN     string // Sentry DSN
	}
}

// configName is the base name of the configuration file.
const configName = "config"

// envPrefix prefixes environment overrides, e.g. LABELGAP_ANALYSIS_TOPN.
const envPrefix = "LABELGAP"

// Load reads the configuration from v, which may already carry bound
// flags, and validates it. A missing config file is not an error.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if err := initViper(v, configFile); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "unmarshal").
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// initViper sets defaults, environment bindings and reads the config file.
func initViper(v *viper.Viper, configFile string) error {
	setDefaultConfig(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		for _, path := range DefaultConfigPaths() {
			v.AddConfigPath(path)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			GetLogger().Debug("No config file found, using defaults")
			return nil
		}
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Context("operation", "read-config").
			Context("file", configFile).
			Build()
	}

	GetLogger().Debug("Config file loaded")
	return nil
}
