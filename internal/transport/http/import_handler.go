package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/importer"
	"cryptopulse/internal/services"
)

// ImportHandler handles document import HTTP requests
type ImportHandler struct {
	service      *services.ImportService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodyBytes int64
}

// NewImportHandler creates a new import handler. maxBodyBytes caps the
// accepted request body size.
func NewImportHandler(service *services.ImportService, maxBodyBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ImportHandler {
	return &ImportHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "import_handler")),
		errorHandler: errorHandler,
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes returns the import routes
func (h *ImportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Import)
	return r
}

// Import handles POST /api/import. The body may be JSON or XML; the
// optional "type" query parameter overrides document-shape detection.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	hint, err := parseTypeHint(r.URL.Query().Get("type"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	result, err := h.service.ImportDocument(r.Context(), body, r.Header.Get("Content-Type"), hint)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = apierrors.ErrPayloadTooLarge
		}
		h.logger.ErrorContext(r.Context(), "import failed",
			slog.String("error", err.Error()),
			slog.String("content_type", r.Header.Get("Content-Type")),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   result,
	})
}

func parseTypeHint(raw string) (importer.DocType, error) {
	switch importer.DocType(raw) {
	case "", importer.TypeAuto:
		return importer.TypeAuto, nil
	case importer.TypeEvents, importer.TypeCurrencies, importer.TypeMixed:
		return importer.DocType(raw), nil
	default:
		return importer.TypeUnknown, apierrors.ErrValidation("type", "must be one of auto, events, currencies, mixed")
	}
}
