// Package buildinfo holds build-time metadata injected with -ldflags.
package buildinfo

import "fmt"

// UnknownValue stands in for metadata the build did not set.
const UnknownValue = "unknown"

// Info is the version and build date of the binary.
type Info struct {
	Version   string
	BuildDate string
}

// New returns build info, replacing empty values with UnknownValue.
func New(version, buildDate string) Info {
	if version == "" {
		version = UnknownValue
	}
	if buildDate == "" {
		buildDate = UnknownValue
	}
	return Info{Version: version, BuildDate: buildDate}
}

// Release returns the release name reported with telemetry events.
func (i Info) Release() string {
	return "labelgap@" + i.Version
}

// String renders the info for `labelgap --version`.
func (i Info) String() string {
	return fmt.Sprintf("%s (built %s)", i.Version, i.BuildDate)
}
