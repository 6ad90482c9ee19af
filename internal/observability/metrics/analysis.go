// Package metrics provides Prometheus metrics for the labelgap pipeline.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics contains the metrics of one analysis run.
type AnalysisMetrics struct {
	StageTotal    *prometheus.CounterVec
	StageErrors   *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	InputRows        *prometheus.GaugeVec
	Population       *prometheus.GaugeVec
	LabelOccurrences *prometheus.GaugeVec
	DistinctLabels   *prometheus.GaugeVec
	RankedLabels     *prometheus.GaugeVec
	CategoryMean     *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewAnalysisMetrics creates the analysis metrics and registers them.
func NewAnalysisMetrics(registry *prometheus.Registry) (*AnalysisMetrics, error) {
	m := &AnalysisMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register analysis metrics: %w", err)
	}
	return m, nil
}

func (m *AnalysisMetrics) initMetrics() {
	m.StageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelgap_stage_total",
			Help: "Pipeline stage executions partitioned by outcome.",
		},
		[]string{"stage", "status"},
	)
	m.StageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labelgap_stage_errors_total",
			Help: "Pipeline stage failures partitioned by error category.",
		},
		[]string{"stage", "error_type"},
	)
	m.StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labelgap_stage_duration_seconds",
			Help:    "Time taken by a pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		},
		[]string{"stage"},
	)
	m.InputRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelgap_input_rows",
			Help: "Data rows read per input table.",
		},
		[]string{"input"},
	)
	m.Population = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelgap_group_population",
			Help: "Distinct roster identifiers per group.",
		},
		[]string{"group"},
	)
	m.LabelOccurrences = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelgap_label_occurrences",
			Help: "Label occurrences counted per group.",
		},
		[]string{"group"},
	)
	m.DistinctLabels = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelgap_distinct_labels",
			Help: "Distinct labels seen per group.",
		},
		[]string{"group"},
	)
	m.RankedLabels = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelgap_ranked_labels",
			Help: "Labels in the disparity ranking per home group.",
		},
		[]string{"group"},
	)
	m.CategoryMean = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "labelgap_category_mean_per_person",
			Help: "Mean category count per person in a group.",
		},
		[]string{"group", "category"},
	)
}

// RecordOperation implements Recorder.
func (m *AnalysisMetrics) RecordOperation(operation, status string) {
	if m == nil {
		return
	}
	m.StageTotal.WithLabelValues(operation, status).Inc()
}

// RecordDuration implements Recorder.
func (m *AnalysisMetrics) RecordDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordError implements Recorder.
func (m *AnalysisMetrics) RecordError(operation, errorType string) {
	if m == nil {
		return
	}
	m.StageErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordStage records the outcome and duration of one stage.
func (m *AnalysisMetrics) RecordStage(stage string, seconds float64, err error) {
	if m == nil {
		return
	}
	RecordStage(m, stage, seconds, err)
}

// SetInputRows records the number of data rows read from an input.
func (m *AnalysisMetrics) SetInputRows(input string, rows int) {
	if m == nil {
		return
	}
	m.InputRows.WithLabelValues(input).Set(float64(rows))
}

// SetGroupTotals records population and label totals for a group.
func (m *AnalysisMetrics) SetGroupTotals(group string, population, occurrences, distinct int) {
	if m == nil {
		return
	}
	m.Population.WithLabelValues(group).Set(float64(population))
	m.LabelOccurrences.WithLabelValues(group).Set(float64(occurrences))
	m.DistinctLabels.WithLabelValues(group).Set(float64(distinct))
}

// SetRankedLabels records the length of a group's disparity ranking.
func (m *AnalysisMetrics) SetRankedLabels(group string, n int) {
	if m == nil {
		return
	}
	m.RankedLabels.WithLabelValues(group).Set(float64(n))
}

// SetCategoryMean records a group's mean count for one category.
func (m *AnalysisMetrics) SetCategoryMean(group, category string, mean float64) {
	if m == nil {
		return
	}
	m.CategoryMean.WithLabelValues(group, category).Set(mean)
}

// Describe implements the prometheus.Collector interface.
func (m *AnalysisMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.StageTotal.Describe(ch)
	m.StageErrors.Describe(ch)
	m.StageDuration.Describe(ch)
	m.InputRows.Describe(ch)
	m.Population.Describe(ch)
	m.LabelOccurrences.Describe(ch)
	m.DistinctLabels.Describe(ch)
	m.RankedLabels.Describe(ch)
	m.CategoryMean.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *AnalysisMetrics) Collect(ch chan<- prometheus.Metric) {
	m.StageTotal.Collect(ch)
	m.StageErrors.Collect(ch)
	m.StageDuration.Collect(ch)
	m.InputRows.Collect(ch)
	m.Population.Collect(ch)
	m.LabelOccurrences.Collect(ch)
	m.DistinctLabels.Collect(ch)
	m.RankedLabels.Collect(ch)
	m.CategoryMean.Collect(ch)
}
