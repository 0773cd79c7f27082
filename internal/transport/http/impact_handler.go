package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/services"
)

// ImpactHandler handles scoring diagnostics HTTP requests
type ImpactHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewImpactHandler creates a new impact handler
func NewImpactHandler(service *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ImpactHandler {
	return &ImpactHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "impact_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the impact diagnostics routes
func (h *ImpactHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/coverage", h.Coverage)
	return r
}

// Coverage handles GET /api/impact/coverage. It reports which stored
// countries, event types, and outcomes the scoring tables map.
func (h *ImpactHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	coverage, err := h.service.MappingCoverage(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   coverage,
	})
}
