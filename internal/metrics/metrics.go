// Package metrics records sync run statistics on an isolated Prometheus
// registry, written out in the node_exporter textfile format at the end of a
// run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the docsync collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Registry *prometheus.Registry

	FilesTotal           *prometheus.CounterVec
	ChangesTotal         *prometheus.CounterVec
	FetchDurationSeconds *prometheus.HistogramVec
	RepositoriesTotal    *prometheus.CounterVec
	LastRunTimestamp     prometheus.Gauge
	BuildInfo            *prometheus.GaugeVec
}

// New creates a Metrics instance with all collectors registered on a fresh
// registry.
func New(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		FilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsync_files_total",
				Help: "Files processed, by repository and outcome.",
			},
			[]string{"repo", "status"},
		),
		ChangesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsync_changes_total",
				Help: "Destination files written, by repository.",
			},
			[]string{"repo"},
		),
		FetchDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsync_fetch_duration_seconds",
				Help:    "Duration of upstream content fetches in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"repo", "result"},
		),
		RepositoriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsync_repositories_total",
				Help: "Repositories synced, by outcome.",
			},
			[]string{"result"},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsync_last_run_timestamp_seconds",
				Help: "Unix time the last sync run finished.",
			},
		),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docsync_info",
				Help: "Build information for docsync.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		m.FilesTotal,
		m.ChangesTotal,
		m.FetchDurationSeconds,
		m.RepositoriesTotal,
		m.LastRunTimestamp,
		m.BuildInfo,
	)

	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)

	return m
}

// ObserveFile counts one processed file.
func (m *Metrics) ObserveFile(repo, status string) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(repo, status).Inc()
}

// ObserveChange counts one written file.
func (m *Metrics) ObserveChange(repo string) {
	if m == nil {
		return
	}
	m.ChangesTotal.WithLabelValues(repo).Inc()
}

// ObserveFetch records a fetch duration. result is "ok" or "error".
func (m *Metrics) ObserveFetch(repo string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.FetchDurationSeconds.WithLabelValues(repo, result).Observe(d.Seconds())
}

// ObserveRepository counts one repository run.
func (m *Metrics) ObserveRepository(changed bool) {
	if m == nil {
		return
	}
	result := "unchanged"
	if changed {
		result = "changed"
	}
	m.RepositoriesTotal.WithLabelValues(result).Inc()
}

// Finish stamps the run completion time.
func (m *Metrics) Finish(now time.Time) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(now.Unix()))
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
