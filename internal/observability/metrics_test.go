package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveImport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveImport("events", "ok", 2, 1, 3, 0, 0, 0)
	m.ObserveImport("events", "ok", 1, 0, 0, 0, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ImportDocuments.WithLabelValues("events", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("events", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("events", "updated")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ImportRows.WithLabelValues("events", "skipped")))
}

func TestObserveRebuild(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRebuild("ok", 5, 2, 120*time.Millisecond)
	m.ObserveRebuild("error", 0, 0, 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RebuildRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RebuildRuns.WithLabelValues("error")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RebuildLinks.WithLabelValues("created")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RebuildLinks.WithLabelValues("updated")))
}
