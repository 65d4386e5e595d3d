package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const MetricsPrefix = "acctdb_"

// Metrics counts what happened to the lines of each accounting file during one run.
// Each run owns its registry so that repeated runs in one process do not collide.
type Metrics struct {
	registry        *prometheus.Registry
	linesRead       *prometheus.CounterVec
	linesSkipped    *prometheus.CounterVec
	recordsFiltered *prometheus.CounterVec
	recordsLoaded   *prometheus.CounterVec
	lastRunSuccess  prometheus.Gauge
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		linesRead: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "lines_read_total",
			Help: "Number of non-comment accounting lines read, grouped by file",
		}, []string{"file"}),
		linesSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "lines_skipped_total",
			Help: "Number of accounting lines skipped because they could not be parsed, grouped by file",
		}, []string{"file"}),
		recordsFiltered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "records_filtered_total",
			Help: "Number of parsed records rejected by the owner filter, grouped by file",
		}, []string{"file"}),
		recordsLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "records_loaded_total",
			Help: "Number of records committed to the accounting table, grouped by file",
		}, []string{"file"}),
		lastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "last_run_success",
			Help: "1 if the ingestion run completed, 0 if it was aborted",
		}),
	}
}

func (m *Metrics) RecordLineRead(file string) {
	m.linesRead.WithLabelValues(file).Inc()
}

func (m *Metrics) RecordLineSkipped(file string) {
	m.linesSkipped.WithLabelValues(file).Inc()
}

func (m *Metrics) RecordFiltered(file string) {
	m.recordsFiltered.WithLabelValues(file).Inc()
}

func (m *Metrics) RecordLoaded(file string, n int) {
	m.recordsLoaded.WithLabelValues(file).Add(float64(n))
}

func (m *Metrics) RecordRunResult(success bool) {
	if success {
		m.lastRunSuccess.Set(1)
	} else {
		m.lastRunSuccess.Set(0)
	}
}

// WriteTextfile writes all metrics in the text exposition format, for pick-up by a node
// exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return errors.WithStack(prometheus.WriteToTextfile(path, m.registry))
}
