// Package relations materializes event/currency links: for every eligible
// event and currency record sharing a calendar day it computes the impact
// score and daily metrics and upserts one link row.
package relations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cryptopulse/internal/analysis"
	"cryptopulse/internal/impact"
	"cryptopulse/internal/metrics"
	"cryptopulse/internal/store"
	"cryptopulse/pkg/contracts/domain"
)

// DefaultBatchSize is the number of events processed per transaction.
const DefaultBatchSize = 50

// progressInterval controls how often rebuild progress is logged.
const progressInterval = 25

// Persisted precision: scores at 2 decimal places, metrics at 6. Fixed
// precision keeps idempotent re-runs byte-identical in storage.
const (
	scorePrecision  = 2
	metricPrecision = 6
)

// Result summarises one rebuild run.
type Result struct {
	Created         int `json:"created"`
	Updated         int `json:"updated"`
	Conflicts       int `json:"conflicts"`
	ProcessedEvents int `json:"processed_events"`
}

// Builder recomputes the full EventCurrencyLink set from persisted events
// and currency records. Runs are idempotent: links are upserted by their
// (event, currency, date) key, so rebuilding over unchanged inputs leaves
// storage byte-identical.
//
// Work proceeds in fixed-size event batches, one transaction per batch.
// A failing batch aborts the run but does not undo earlier batches; the
// pipeline trades global atomicity for restartability on large datasets.
// Callers must ensure at most one rebuild runs at a time.
type Builder struct {
	store     store.Store
	logger    *slog.Logger
	batchSize int
}

// NewBuilder creates a relationship builder over the given store.
func NewBuilder(st store.Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		store:     st,
		logger:    logger,
		batchSize: DefaultBatchSize,
	}
}

// SetBatchSize overrides the events-per-transaction batch size.
func (b *Builder) SetBatchSize(size int) {
	if size > 0 {
		b.batchSize = size
	}
}

// Rebuild recomputes links for all eligible events against all eligible
// currency records. Eligibility is enforced at the data-access boundary:
// events need country and event type, currency records need complete OHLC
// with a non-zero open.
func (b *Builder) Rebuild(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	events, err := b.store.ListEvents(ctx, store.EventFilter{ScoringReady: true})
	if err != nil {
		return nil, fmt.Errorf("list scoring-ready events: %w", err)
	}

	currencies, err := b.store.ListCurrencies(ctx, store.CurrencyFilter{CompleteOHLC: true})
	if err != nil {
		return nil, fmt.Errorf("list complete currency records: %w", err)
	}

	b.logger.InfoContext(ctx, "starting relationship rebuild",
		"eligible_events", len(events),
		"eligible_currencies", len(currencies),
		"batch_size", b.batchSize,
	)

	if len(events) == 0 || len(currencies) == 0 {
		b.logger.InfoContext(ctx, "no data available for relationship building")
		return result, nil
	}

	currenciesByDay := groupByDay(currencies)

	for offset := 0; offset < len(events); offset += b.batchSize {
		end := offset + b.batchSize
		if end > len(events) {
			end = len(events)
		}
		batch := events[offset:end]

		err := b.store.RunInTransaction(ctx, func(tx store.Store) error {
			return b.processBatch(ctx, tx, batch, currenciesByDay, result)
		})
		if err != nil {
			b.logger.ErrorContext(ctx, "relationship batch failed",
				"batch_start", offset,
				"error", err,
			)
			return result, fmt.Errorf("process batch at offset %d: %w", offset, err)
		}
	}

	if stats, err := b.store.LinkStats(ctx); err == nil {
		b.logger.InfoContext(ctx, "relationship rebuild completed",
			"created", result.Created,
			"updated", result.Updated,
			"conflicts", result.Conflicts,
			"total_links", stats.TotalLinks,
			"unique_events", stats.UniqueEvents,
			"unique_currencies", stats.UniqueCurrencies,
			"avg_impact_score", stats.AvgImpactScore,
			"duration", time.Since(start).String(),
		)
	}

	return result, nil
}

// processBatch materializes links for one event batch inside its transaction.
func (b *Builder) processBatch(ctx context.Context, tx store.Store, batch []domain.Event, currenciesByDay map[time.Time][]domain.CurrencyRecord, result *Result) error {
	for _, event := range batch {
		day := event.Day()
		score := analysis.Round(impact.ScoreOptional(event.Country, event.EventType, event.Outcome), scorePrecision)

		for _, currency := range currenciesByDay[day] {
			link := &domain.EventCurrencyLink{
				EventID:     event.ID,
				CurrencyID:  currency.ID,
				Date:        day,
				ImpactScore: score,
				DailyReturn: analysis.Round(metrics.DailyReturn(*currency.Open, *currency.Close), metricPrecision),
				Volatility:  analysis.Round(metrics.Volatility(*currency.Open, *currency.High, *currency.Low), metricPrecision),
			}

			created, err := tx.UpsertLink(ctx, link)
			if err != nil {
				if errors.Is(err, store.ErrConflict) {
					result.Conflicts++
					continue
				}
				return fmt.Errorf("upsert link event=%d currency=%d: %w", event.ID, currency.ID, err)
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}

		result.ProcessedEvents++
		if result.ProcessedEvents%progressInterval == 0 {
			b.logger.InfoContext(ctx, "relationship rebuild progress",
				"processed_events", result.ProcessedEvents,
				"created", result.Created,
				"updated", result.Updated,
			)
		}
	}
	return nil
}

// groupByDay indexes currency records by calendar day. Day-keyed lookup
// replaces a full event-by-currency scan without changing which pairs match.
func groupByDay(currencies []domain.CurrencyRecord) map[time.Time][]domain.CurrencyRecord {
	byDay := make(map[time.Time][]domain.CurrencyRecord, len(currencies))
	for _, c := range currencies {
		day := c.Day()
		byDay[day] = append(byDay[day], c)
	}
	return byDay
}
