package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/services"
)

// RelationsHandler handles relationship maintenance HTTP requests
type RelationsHandler struct {
	service      *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRelationsHandler creates a new relations handler
func NewRelationsHandler(service *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RelationsHandler {
	return &RelationsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "relations_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the relations routes
func (h *RelationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/rebuild", h.Rebuild)
	return r
}

// Rebuild handles POST /api/relations/rebuild. It recomputes the full
// link set from current events and currency rows.
func (h *RelationsHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "relationship rebuild requested")

	result, err := h.service.Rebuild(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}
