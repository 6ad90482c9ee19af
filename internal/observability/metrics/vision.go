package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// VisionMetrics contains the metrics of the image labeling client.
type VisionMetrics struct {
	Requests        *prometheus.CounterVec
	RequestErrors   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	LabelsReturned  prometheus.Histogram

	registry *prometheus.Registry
}

// NewVisionMetrics creates the labeling client metrics and registers them.
func NewVisionMetrics(registry *prometheus.Registry) (*VisionMetrics, error) {
	m := &VisionMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register vision metrics: %w", err)
	}
	return m, nil
}

func (m *VisionMetrics) initMetrics() {
	m.Requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "labelgap_vision_requests_total",
		Help: "Label annotation requests partitioned by outcome.",
	}, []string{"status"})

	m.RequestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "labelgap_vision_request_errors_total",
		Help: "Failed label annotation requests partitioned by error category.",
	}, []string{"error_type"})

	m.RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "labelgap_vision_request_duration_seconds",
		Help:    "Duration of label annotation requests.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	m.CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "labelgap_vision_cache_hits_total",
		Help: "Images answered from the annotation cache.",
	})

	m.CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "labelgap_vision_cache_misses_total",
		Help: "Images that required a service request.",
	})

	m.LabelsReturned = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "labelgap_vision_labels_per_image",
		Help:    "Number of labels returned per image.",
		Buckets: prometheus.LinearBuckets(0, 5, 11),
	})
}

// RecordRequest records one service request.
func (m *VisionMetrics) RecordRequest(seconds float64, labels int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.Requests.WithLabelValues(StatusError).Inc()
		m.RequestErrors.WithLabelValues(categorizeError(err)).Inc()
		return
	}
	m.Requests.WithLabelValues(StatusSuccess).Inc()
	m.RequestDuration.Observe(seconds)
	m.LabelsReturned.Observe(float64(labels))
}

// IncrementCacheHits increases the cache hit counter by one.
func (m *VisionMetrics) IncrementCacheHits() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncrementCacheMisses increases the cache miss counter by one.
func (m *VisionMetrics) IncrementCacheMisses() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// Describe implements the prometheus.Collector interface.
func (m *VisionMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.Requests.Describe(ch)
	m.RequestErrors.Describe(ch)
	ch <- m.RequestDuration.Desc()
	ch <- m.CacheHits.Desc()
	ch <- m.CacheMisses.Desc()
	ch <- m.LabelsReturned.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *VisionMetrics) Collect(ch chan<- prometheus.Metric) {
	m.Requests.Collect(ch)
	m.RequestErrors.Collect(ch)
	ch <- m.RequestDuration
	ch <- m.CacheHits
	ch <- m.CacheMisses
	ch <- m.LabelsReturned
}
