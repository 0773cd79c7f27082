package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/services"
)

// AnalyticsHandler handles the reporting HTTP requests over the link set
type AnalyticsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analytics routes
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/events", h.EventsBySymbol)
	r.Get("/top-events", h.TopImpactEvents)
	r.Get("/correlation-summary", h.CorrelationSummary)
	r.Get("/correlation", h.CorrelationByMetric)
	r.Get("/stats", h.Stats)

	return r
}

// EventsBySymbol handles GET /api/analytics/events?symbol=&from=&to=
func (h *AnalyticsHandler) EventsBySymbol(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	links, err := h.service.EventsBySymbol(r.Context(), q.Get("symbol"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   links,
		"count":  len(links),
	})
}

// TopImpactEvents handles GET /api/analytics/top-events?symbol=&limit=&from=&to=
func (h *AnalyticsHandler) TopImpactEvents(w http.ResponseWriter, r *http.Request) {
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

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   ranked,
		"count":  len(ranked),
	})
}

// CorrelationSummary handles GET /api/analytics/correlation-summary?symbol=&from=&to=
func (h *AnalyticsHandler) CorrelationSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	summary, err := h.service.CorrelationSummary(r.Context(), q.Get("symbol"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// CorrelationByMetric handles GET /api/analytics/correlation?symbol=&metric=&from=&to=
func (h *AnalyticsHandler) CorrelationByMetric(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	corr, err := h.service.CorrelationByMetric(r.Context(), q.Get("symbol"), q.Get("metric"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   corr,
	})
}

// Stats handles GET /api/analytics/stats
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}
