package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/importer"
	"cryptopulse/internal/relations"
	"cryptopulse/internal/services"
	"cryptopulse/internal/store/storetest"
	"cryptopulse/pkg/contracts/domain"
)

const testMaxBodyBytes = 1 << 20

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// newTestServer wires the full API router over an in-memory store, the
// same layout the application assembles at startup.
func newTestServer(t *testing.T) (*httptest.Server, *storetest.MemoryStore) {
	t.Helper()

	logger := testLogger()
	m := storetest.New()
	builder := relations.NewBuilder(m, logger)
	analytics := services.NewAnalyticsService(m, builder, nil, logger)
	imp := importer.New(m, analytics, logger)
	importSvc := services.NewImportService(imp, nil, logger)
	health := services.NewHealthService("test", m, logger)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Mount("/health", NewHealthHandler(health, logger).Routes())
		r.Mount("/import", NewImportHandler(importSvc, testMaxBodyBytes, logger, errorHandler).Routes())
		r.Mount("/analytics", NewAnalyticsHandler(analytics, logger, errorHandler).Routes())
		r.Mount("/relations", NewRelationsHandler(analytics, logger, errorHandler).Routes())
		r.Mount("/impact", NewImpactHandler(analytics, logger, errorHandler).Routes())
		r.Mount("/export", NewExportHandler(analytics, logger, errorHandler).Routes())
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, m
}

func seedLinked(t *testing.T, m *storetest.MemoryStore, dates ...string) {
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

func getJSON(t *testing.T, url string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestEventsEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	seedLinked(t, m, "2021-03-01", "2021-03-02")

	status, body := getJSON(t, srv.URL+"/api/analytics/events?symbol=BTC")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(2), body["count"])
}

func TestEventsEndpoint_MissingSymbol(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := getJSON(t, srv.URL+"/api/analytics/events")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["type"], "validation")
}

func TestTopEventsEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	seedLinked(t, m, "2021-03-01", "2021-03-02", "2021-03-03")

	status, body := getJSON(t, srv.URL+"/api/analytics/top-events?symbol=BTC&limit=2")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	status, _ = getJSON(t, srv.URL+"/api/analytics/top-events?limit=abc")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTopEventsEndpoint_DateRange(t *testing.T) {
	srv, m := newTestServer(t)
	seedLinked(t, m, "2021-03-01", "2021-03-02", "2021-03-05")

	status, body := getJSON(t, srv.URL+"/api/analytics/top-events?symbol=BTC&from=2021-03-01&to=2021-03-03")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["count"])

	status, body = getJSON(t, srv.URL+"/api/analytics/top-events?symbol=BTC&from=2021-03-05&to=2021-03-01")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["type"], "validation")
}

func TestCorrelationEndpoints(t *testing.T) {
	srv, m := newTestServer(t)
	seedLinked(t, m, "2021-03-01", "2021-03-02")

	status, body := getJSON(t, srv.URL+"/api/analytics/correlation-summary?symbol=BTC")
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "BTC", data["symbol"])

	status, _ = getJSON(t, srv.URL+"/api/analytics/correlation?symbol=BTC&metric=daily_return")
	assert.Equal(t, http.StatusOK, status)

	status, _ = getJSON(t, srv.URL+"/api/analytics/correlation?symbol=BTC&metric=spread")
	assert.Equal(t, http.StatusBadRequest, status)

	// Date range narrows the summarized set.
	status, body = getJSON(t, srv.URL+"/api/analytics/correlation-summary?symbol=BTC&from=2021-03-02&to=2021-03-02")
	assert.Equal(t, http.StatusOK, status)
	data = body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["data_points"])
}

func TestCorrelationSummary_NoDataIs404(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := getJSON(t, srv.URL+"/api/analytics/correlation-summary?symbol=BTC")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStatsEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	seedLinked(t, m, "2021-03-01")

	status, body := getJSON(t, srv.URL+"/api/analytics/stats")
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["total_links"])
}

func TestImportEndpoint(t *testing.T) {
	srv, m := newTestServer(t)

	doc := `{"Events": {"Event": [
		{"name_of_incident": "Brexit Vote", "date": "2016-06-23", "country": "UK", "type_of_event": "Political Change"}
	]}}`
	resp, err := http.Post(srv.URL+"/api/import", "application/json", strings.NewReader(doc))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "events", data["type"])
	assert.Equal(t, float64(1), data["events_imported"])
	assert.Len(t, m.Events, 1)
}

func TestImportEndpoint_UnsupportedContentType(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/import", "text/csv", strings.NewReader("a,b"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestImportEndpoint_InvalidTypeHint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/import?type=bogus", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportEndpoint_UnknownDocument(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/import", "application/json", strings.NewReader(`{"Report": {}}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRebuildEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	m.SeedEvent(domain.Event{
		IncidentName: "Election", Date: day("2021-03-01"),
		Country: strp("USA"), EventType: strp("Political Change"),
	})
	m.SeedCurrency(domain.CurrencyRecord{
		Name: "Bitcoin", Symbol: "BTC", Date: day("2021-03-01"),
		Open: fp(100), High: fp(110), Low: fp(90), Close: fp(105),
	})

	resp, err := http.Post(srv.URL+"/api/relations/rebuild", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["created"])
}

func TestCoverageEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	m.SeedEvent(domain.Event{
		IncidentName: "Flood", Date: day("2021-03-01"),
		Country: strp("Wakanda"), EventType: strp("Natural Disaster"),
	})

	status, body := getJSON(t, srv.URL+"/api/impact/coverage")
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	countries := data["countries"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Wakanda"}, countries["unmapped"])
}

func TestExportTopEventsEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	seedLinked(t, m, "2021-03-01")

	resp, err := http.Get(srv.URL + "/api/export/top-events?symbol=BTC")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Top Impact Events")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := getJSON(t, srv.URL+"/api/health")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}
