// Package observability exposes Prometheus metrics for the import and
// relationship-building pipelines.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cryptopulse"

// Metrics holds the pipeline metric collectors.
type Metrics struct {
	ImportDocuments *prometheus.CounterVec
	ImportRows      *prometheus.CounterVec
	RebuildRuns     *prometheus.CounterVec
	RebuildLinks    *prometheus.CounterVec
	RebuildDuration prometheus.Summary
}

// New creates and registers the pipeline metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ImportDocuments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_documents_total",
			Help:      "Imported documents by type and status",
		}, []string{"type", "status"}),
		ImportRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Processed import rows by kind and action",
		}, []string{"kind", "action"}),
		RebuildRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_runs_total",
			Help:      "Relationship rebuild runs by status",
		}, []string{"status"}),
		RebuildLinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_links_total",
			Help:      "Links written by rebuild runs, by result",
		}, []string{"result"}),
		RebuildDuration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Time spent rebuilding relationships",
		}),
	}

	reg.MustRegister(
		m.ImportDocuments, m.ImportRows,
		m.RebuildRuns, m.RebuildLinks, m.RebuildDuration,
	)
	return m
}

// ObserveImport records one finished document import.
func (m *Metrics) ObserveImport(docType, status string, created, updated, skippedEvents, createdCur, updatedCur, skippedCur int) {
	m.ImportDocuments.WithLabelValues(docType, status).Inc()
	m.ImportRows.WithLabelValues("events", "created").Add(float64(created))
	m.ImportRows.WithLabelValues("events", "updated").Add(float64(updated))
	m.ImportRows.WithLabelValues("events", "skipped").Add(float64(skippedEvents))
	m.ImportRows.WithLabelValues("currencies", "created").Add(float64(createdCur))
	m.ImportRows.WithLabelValues("currencies", "updated").Add(float64(updatedCur))
	m.ImportRows.WithLabelValues("currencies", "skipped").Add(float64(skippedCur))
}

// ObserveRebuild records one finished rebuild run.
func (m *Metrics) ObserveRebuild(status string, created, updated int, elapsed time.Duration) {
	m.RebuildRuns.WithLabelValues(status).Inc()
	m.RebuildLinks.WithLabelValues("created").Add(float64(created))
	m.RebuildLinks.WithLabelValues("updated").Add(float64(updated))
	m.RebuildDuration.Observe(elapsed.Seconds())
}
