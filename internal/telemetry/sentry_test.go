package telemetry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/labelgap/internal/errors"
)

// captureTransport records events in memory instead of sending them.
type captureTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (t *captureTransport) Configure(sentry.ClientOptions) {}

func (t *captureTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *captureTransport) Flush(time.Duration) bool { return true }

func (t *captureTransport) FlushWithContext(context.Context) bool { return true }

func (t *captureTransport) Close() {}

func (t *captureTransport) Events() []*sentry.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*sentry.Event(nil), t.events...)
}

func TestInitDisabled(t *testing.T) {
	closeFn, err := Init(Config{Enabled: true})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	closeFn()

	closeFn, err = Init(Config{DSN: "https://public@example.com/1"})
	require.NoError(t, err)
	closeFn()
}

func TestInitReportsEnhancedErrors(t *testing.T) {
	transport := &captureTransport{}
	closeFn, err := Init(Config{
		Enabled:   true,
		DSN:       "https://public@example.com/1",
		Release:   "labelgap@test",
		RunID:     "run-1",
		Transport: transport,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		closeFn()
		_ = sentry.Init(sentry.ClientOptions{})
	})

	_ = errors.ConfigurationError("analysis", "analysis: population of Female is zero")

	events := transport.Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Message, "population of Female is zero")
	assert.Equal(t, "analysis", events[0].Tags["component"])
	assert.Equal(t, "run-1", events[0].Tags["run_id"])
	assert.Empty(t, events[0].ServerName)

	closeFn()
	_ = errors.ConfigurationError("analysis", "not reported after close")
	assert.Len(t, transport.Events(), 1)
}

func TestApplyPrivacyFilters(t *testing.T) {
	t.Parallel()

	event := sentry.NewEvent()
	event.User = sentry.User{ID: "someone"}
	event.ServerName = "host"
	event.Contexts = map[string]sentry.Context{"os": {}, "device": {}, "runtime": {}, "value": {}}
	event.Extra = map[string]any{"component": "vision", "path": "/home/user"}
	event.Tags = map[string]string{"hostname": "host", "category": "network"}

	filtered := applyPrivacyFilters(event)

	assert.True(t, filtered.User.IsEmpty())
	assert.Empty(t, filtered.ServerName)
	assert.Equal(t, []string{"value"}, keys(filtered.Contexts))
	assert.Equal(t, map[string]any{"component": "vision"}, filtered.Extra)
	assert.Equal(t, map[string]string{"category": "network"}, filtered.Tags)
}

func keys(m map[string]sentry.Context) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
