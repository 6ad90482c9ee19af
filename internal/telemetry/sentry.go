// Package telemetry initializes optional Sentry error reporting. Reporting
// is off unless enabled in the settings with a DSN; events are stripped of
// host and user data before they are sent.
package telemetry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
)

// flushTimeout bounds how long Close waits for queued events.
const flushTimeout = 2 * time.Second

// Config selects whether and where errors are reported.
type Config struct {
	Enabled   bool
	DSN       string
	Release   string
	RunID     string
	Transport sentry.Transport // nil for the default HTTP transport
}

// Init initializes the Sentry SDK and installs the error reporter. The
// returned func flushes pending events and removes the reporter; it is
// safe to call when reporting is disabled.
func Init(cfg Config) (func(), error) {
	if !cfg.Enabled || cfg.DSN == "" {
		GetLogger().Debug("Error telemetry disabled")
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "",
		Release:          cfg.Release,
		Transport:        cfg.Transport,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	})
	if err != nil {
		return nil, errors.New(err).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Context("operation", "sentry-init").
			Build()
	}

	if cfg.RunID != "" {
		sentry.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("run_id", cfg.RunID)
		})
	}

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	GetLogger().Info("Error telemetry enabled", logger.String("release", cfg.Release))

	return func() {
		errors.SetTelemetryReporter(nil)
		if !sentry.Flush(flushTimeout) {
			GetLogger().Warn("Telemetry events not flushed in time",
				logger.Duration("timeout", flushTimeout))
		}
	}, nil
}

// applyPrivacyFilters removes user, host and runtime data from an event.
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	for k := range event.Extra {
		if k != "error_type" && k != "component" {
			delete(event.Extra, k)
		}
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}

	return event
}
