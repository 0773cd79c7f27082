package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/exporter"
	"cryptopulse/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves analytics reports as downloadable xlsx workbooks
type ExportHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/top-events", h.TopImpactEvents)
	r.Get("/correlation-summary", h.CorrelationSummary)
	return r
}

// TopImpactEvents handles GET /api/export/top-events?symbol=&limit=&from=&to=
func (h *ExportHandler) TopImpactEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "must be an integer"))
			return
		}
		limit = parsed
	}

	ranked, err := h.service.TopImpactEvents(r.Context(), q.Get("symbol"), limit, q.Get("from"), q.Get("to"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.sendWorkbook(w, r, "top_impact_events", func(w http.ResponseWriter) error {
		return exporter.WriteTopImpact(w, ranked)
	})
}

// CorrelationSummary handles GET /api/export/correlation-summary?symbol=&from=&to=
func (h *ExportHandler) CorrelationSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := q.Get("symbol")

	summary, err := h.service.CorrelationSummary(r.Context(), symbol, q.Get("from"), q.Get("to"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.sendWorkbook(w, r, fmt.Sprintf("correlation_summary_%s", symbol), func(w http.ResponseWriter) error {
		return exporter.WriteCorrelationSummary(w, summary)
	})
}

// sendWorkbook sets the download headers and streams the workbook. A
// write failure after headers are sent can only be logged.
func (h *ExportHandler) sendWorkbook(w http.ResponseWriter, r *http.Request, name string, write func(http.ResponseWriter) error) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := write(w); err != nil {
		h.logger.ErrorContext(r.Context(), "workbook export failed",
			slog.String("report", name),
			slog.String("error", err.Error()),
		)
	}
}
