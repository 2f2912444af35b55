package observability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters for a single run. They are kept in a private
// registry and can be written to a node_exporter textfile on exit.
type Metrics struct {
	FetchCount       *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	SampleStage      prometheus.Gauge
	LastRunTimestamp prometheus.Gauge

	registry *prometheus.Registry
}

func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		FetchCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lab_status_fetch_total",
				Help: "Total number of appointment lookups by HTTP status code",
			},
			[]string{"status_code"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lab_status_fetch_duration_seconds",
				Help:    "Appointment lookup duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		SampleStage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lab_status_sample_stage",
				Help: "Sample progress (0 = not at lab, 1 = in lab, 2 = testing, 3 = resulted)",
			},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lab_status_last_run_timestamp_seconds",
				Help: "Unix time of the last completed status check",
			},
		),
		registry: prometheus.NewRegistry(),
	}

	collectors := []prometheus.Collector{m.FetchCount, m.FetchDuration, m.SampleStage, m.LastRunTimestamp}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return m, nil
}

// RecordFetch records one lookup. A statusCode of 0 means no response was received.
func (m *Metrics) RecordFetch(statusCode int, duration time.Duration) {
	label := "error"
	if statusCode > 0 {
		label = strconv.Itoa(statusCode)
	}
	m.FetchCount.WithLabelValues(label).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

func (m *Metrics) SetSampleStage(stage int) {
	m.SampleStage.Set(float64(stage))
}

func (m *Metrics) MarkRun(at time.Time) {
	m.LastRunTimestamp.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile atomically writes all metrics in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
