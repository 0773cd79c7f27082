package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptopulse/internal/analysis"
	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/observability"
	"cryptopulse/internal/relations"
	"cryptopulse/internal/store/storetest"
	"cryptopulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// seedLinkedData seeds one event and currency pair per date and runs a
// rebuild so the link set is populated.
func seedLinkedData(t *testing.T, m *storetest.MemoryStore, dates ...string) {
	t.Helper()
	for _, d := range dates {
		m.SeedEvent(domain.Event{
			IncidentName: "Event " + d,
			Date:         day(d),
			Country:      strp("USA"),
			EventType:    strp("Natural Disaster"),
		})
		m.SeedCurrency(domain.CurrencyRecord{
			Name: "Bitcoin", Symbol: "BTC", Date: day(d),
			Open: fp(100), High: fp(112), Low: fp(95), Close: fp(108),
		})
	}
	_, err := relations.NewBuilder(m, testLogger()).Rebuild(context.Background())
	require.NoError(t, err)
}

func TestEventsBySymbol(t *testing.T) {
	m := storetest.New()
	seedLinkedData(t, m, "2021-03-01", "2021-03-02", "2021-03-05")
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	links, err := svc.EventsBySymbol(context.Background(), "BTC", "", "")
	require.NoError(t, err)
	assert.Len(t, links, 3)

	// Date range narrows the result.
	links, err = svc.EventsBySymbol(context.Background(), "BTC", "2021-03-02", "2021-03-04")
	require.NoError(t, err)
	assert.Len(t, links, 1)

	// Unknown symbol: empty, not an error.
	links, err = svc.EventsBySymbol(context.Background(), "DOGE", "", "")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestEventsBySymbol_Validation(t *testing.T) {
	m := storetest.New()
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	_, err := svc.EventsBySymbol(context.Background(), "", "", "")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	_, err = svc.EventsBySymbol(context.Background(), "BTC", "2021-03-05", "2021-03-01")
	require.ErrorAs(t, err, &apiErr)

	_, err = svc.EventsBySymbol(context.Background(), "BTC", "bogus", "")
	require.ErrorAs(t, err, &apiErr)
}

func TestTopImpactEvents(t *testing.T) {
	m := storetest.New()
	seedLinkedData(t, m, "2021-03-01", "2021-03-02")
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	ranked, err := svc.TopImpactEvents(context.Background(), "", 1, "", "")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "BTC", ranked[0].CurrencySymbol)
}

func TestTopImpactEvents_DateRange(t *testing.T) {
	m := storetest.New()
	seedLinkedData(t, m, "2021-03-01", "2021-03-02", "2021-03-05")
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	// Range excludes the 2021-03-05 link.
	ranked, err := svc.TopImpactEvents(context.Background(), "BTC", 10, "2021-03-01", "2021-03-03")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	for _, r := range ranked {
		assert.True(t, r.Date.Before(day("2021-03-03")))
	}

	_, err = svc.TopImpactEvents(context.Background(), "BTC", 10, "2021-03-05", "2021-03-01")
	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
}

func TestTopImpactEvents_ConfiguredLimits(t *testing.T) {
	m := storetest.New()
	seedLinkedData(t, m, "2021-03-01", "2021-03-02", "2021-03-03")
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())
	svc.SetRankLimits(2, 2)

	// No limit requested: the configured default applies.
	ranked, err := svc.TopImpactEvents(context.Background(), "BTC", 0, "", "")
	require.NoError(t, err)
	assert.Len(t, ranked, 2)

	// Requests above the configured maximum are capped.
	ranked, err = svc.TopImpactEvents(context.Background(), "BTC", 100, "", "")
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestCorrelationSummary(t *testing.T) {
	m := storetest.New()
	seedLinkedData(t, m, "2021-03-01", "2021-03-02", "2021-03-03")
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	summary, err := svc.CorrelationSummary(context.Background(), "BTC", "", "")
	require.NoError(t, err)
	assert.Equal(t, "BTC", summary.Symbol)
	assert.Equal(t, 3, summary.DataPoints)
	assert.Equal(t, day("2021-03-01"), summary.StartDate)
	assert.Equal(t, day("2021-03-03"), summary.EndDate)

	// Date range narrows the summarized set.
	summary, err = svc.CorrelationSummary(context.Background(), "BTC", "2021-03-02", "2021-03-03")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.DataPoints)
	assert.Equal(t, day("2021-03-02"), summary.StartDate)
	assert.Equal(t, day("2021-03-03"), summary.EndDate)
}

func TestCorrelationSummary_NoData(t *testing.T) {
	m := storetest.New()
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	_, err := svc.CorrelationSummary(context.Background(), "BTC", "", "")
	assert.ErrorIs(t, err, analysis.ErrNoValidData)
}

func TestCorrelationByMetric(t *testing.T) {
	m := storetest.New()
	seedLinkedData(t, m, "2021-03-01", "2021-03-02")
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	corr, err := svc.CorrelationByMetric(context.Background(), "BTC", MetricDailyReturn, "", "")
	require.NoError(t, err)
	assert.Equal(t, MetricDailyReturn, corr.Metric)
	assert.Equal(t, 2, corr.DataPoints)

	// Date range narrows the correlated set.
	corr, err = svc.CorrelationByMetric(context.Background(), "BTC", MetricDailyReturn, "2021-03-02", "2021-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, corr.DataPoints)

	_, err = svc.CorrelationByMetric(context.Background(), "BTC", "spread", "", "")
	var apiErr *apierrors.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestRebuild_RecordsMetrics(t *testing.T) {
	m := storetest.New()
	m.SeedEvent(domain.Event{
		IncidentName: "Election", Date: day("2021-03-01"),
		Country: strp("USA"), EventType: strp("Political Change"),
	})
	m.SeedCurrency(domain.CurrencyRecord{
		Name: "Bitcoin", Symbol: "BTC", Date: day("2021-03-01"),
		Open: fp(100), High: fp(110), Low: fp(90), Close: fp(105),
	})

	reg := prometheus.NewRegistry()
	metrics := observability.New(reg)
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), metrics, testLogger())

	result, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RebuildRuns.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RebuildLinks.WithLabelValues("created")))
}

func TestMappingCoverage(t *testing.T) {
	m := storetest.New()
	m.SeedEvent(domain.Event{
		IncidentName: "Election", Date: day("2021-03-01"),
		Country: strp("USA"), EventType: strp("Atlantis Summit"), Outcome: strp("Positive"),
	})
	m.SeedEvent(domain.Event{
		IncidentName: "Flood", Date: day("2021-03-02"),
		Country: strp("Wakanda"), EventType: strp("Natural Disaster"),
	})
	svc := NewAnalyticsService(m, relations.NewBuilder(m, testLogger()), nil, testLogger())

	coverage, err := svc.MappingCoverage(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, coverage.Countries.Mapped)
	assert.Equal(t, []string{"Wakanda"}, coverage.Countries.Unmapped)
	assert.Equal(t, 1, coverage.EventTypes.Mapped)
	assert.Equal(t, []string{"Atlantis Summit"}, coverage.EventTypes.Unmapped)
	assert.Equal(t, 1, coverage.Outcomes.Mapped)
	assert.Empty(t, coverage.Outcomes.Unmapped)
}

func TestHealthService(t *testing.T) {
	m := storetest.New()
	svc := NewHealthService("1.2.3", m, testLogger())

	status := svc.Check(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Contains(t, status.Services, "database")
}
