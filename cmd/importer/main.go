// Command importer seeds the database from JSON or XML document files.
// Each file is imported in its own transaction; the relationship set is
// rebuilt once after the last file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cryptopulse/internal/config"
	"cryptopulse/internal/importer"
	"cryptopulse/internal/infrastructure"
	"cryptopulse/internal/relations"
	"cryptopulse/internal/services"
	"cryptopulse/internal/store/postgres"
)

func main() {
	typeHint := flag.String("type", "auto", "document type hint: auto, events, currencies, mixed")
	skipRebuild := flag.Bool("skip-rebuild", false, "do not rebuild relationships after importing")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: importer [-type auto|events|currencies|mixed] [-skip-rebuild] <file>...")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	st, err := postgres.New(postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Rebuild once at the end rather than per file.
	imp := importer.New(st, nil, logger)

	ctx := context.Background()
	failed := 0
	for _, path := range flag.Args() {
		if err := importFile(ctx, imp, path, importer.DocType(*typeHint), logger); err != nil {
			logger.Error("import failed", "file", path, "error", err)
			failed++
		}
	}

	if !*skipRebuild {
		builder := relations.NewBuilder(st, logger)
		builder.SetBatchSize(cfg.Analytics.BatchSize)
		result, err := services.NewAnalyticsService(st, builder, nil, logger).Rebuild(ctx)
		if err != nil {
			logger.Error("relationship rebuild failed", "error", err)
			os.Exit(1)
		}
		logger.Info("relationships rebuilt",
			"created", result.Created,
			"updated", result.Updated,
			"conflicts", result.Conflicts)
	}

	if failed > 0 {
		logger.Error("some files failed to import", "failed", failed, "total", flag.NArg())
		os.Exit(1)
	}
}

func importFile(ctx context.Context, imp *importer.Importer, path string, hint importer.DocType, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var result *importer.Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		result, err = imp.ImportXML(ctx, f, hint)
	case ".json":
		result, err = imp.ImportJSON(ctx, f, hint)
	default:
		return fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	logger.Info("file imported",
		"file", path,
		"type", string(result.Type),
		"events_imported", result.EventsImported,
		"events_updated", result.EventsUpdated,
		"events_skipped", result.EventsSkipped,
		"currencies_imported", result.CurrenciesImported,
		"currencies_updated", result.CurrenciesUpdated,
		"currencies_skipped", result.CurrenciesSkipped)
	return nil
}
