// Package services orchestrates the import and analytics pipelines for
// the transport layer.
package services

import (
	"context"
	"io"
	"log/slog"
	"strings"

	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/importer"
	"cryptopulse/internal/observability"
)

// ImportService accepts inbound documents, routes them to the right
// decoder by content type, and records import metrics.
type ImportService struct {
	importer *importer.Importer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewImportService creates a new import service. metrics may be nil.
func NewImportService(imp *importer.Importer, metrics *observability.Metrics, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		importer: imp,
		metrics:  metrics,
		logger:   logger,
	}
}

// ImportDocument imports one document from r. The decoder is chosen by
// content type; an empty content type defaults to JSON.
func (s *ImportService) ImportDocument(ctx context.Context, r io.Reader, contentType string, hint importer.DocType) (*importer.Result, error) {
	var (
		result *importer.Result
		err    error
	)

	switch {
	case strings.Contains(contentType, "xml"):
		result, err = s.importer.ImportXML(ctx, r, hint)
	case strings.Contains(contentType, "json"), contentType == "":
		result, err = s.importer.ImportJSON(ctx, r, hint)
	default:
		return nil, apierrors.ErrUnsupportedMedia
	}

	s.observe(result, err)
	return result, err
}

func (s *ImportService) observe(result *importer.Result, err error) {
	if s.metrics == nil {
		return
	}

	status := "ok"
	if err != nil {
		status = "error"
	}

	docType := string(importer.TypeUnknown)
	created, updated, skipped := 0, 0, 0
	curCreated, curUpdated, curSkipped := 0, 0, 0
	if result != nil {
		docType = string(result.Type)
		created, updated, skipped = result.EventsImported, result.EventsUpdated, result.EventsSkipped
		curCreated, curUpdated, curSkipped = result.CurrenciesImported, result.CurrenciesUpdated, result.CurrenciesSkipped
	}

	s.metrics.ObserveImport(docType, status, created, updated, skipped, curCreated, curUpdated, curSkipped)
}
