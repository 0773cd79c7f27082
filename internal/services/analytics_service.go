package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"cryptopulse/internal/analysis"
	apierrors "cryptopulse/internal/errors"
	"cryptopulse/internal/impact"
	"cryptopulse/internal/observability"
	"cryptopulse/internal/relations"
	"cryptopulse/internal/store"
	"cryptopulse/pkg/contracts/domain"
)

// Metric names accepted by CorrelationByMetric.
const (
	MetricDailyReturn = "daily_return"
	MetricVolatility  = "volatility"
)

// MetricCorrelation is the correlation of the impact score against one
// named financial metric for a symbol.
type MetricCorrelation struct {
	Symbol     string                  `json:"symbol"`
	Metric     string                  `json:"metric"`
	DataPoints int                     `json:"data_points"`
	Result     analysis.Interpretation `json:"result"`
}

// AnalyticsService exposes the reporting operations over the link set
// and owns relationship rebuilds.
type AnalyticsService struct {
	store        store.Store
	builder      *relations.Builder
	metrics      *observability.Metrics
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewAnalyticsService creates a new analytics service. metrics may be nil.
func NewAnalyticsService(st store.Store, builder *relations.Builder, metrics *observability.Metrics, logger *slog.Logger) *AnalyticsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		store:        st,
		builder:      builder,
		metrics:      metrics,
		logger:       logger,
		defaultLimit: analysis.DefaultRankLimit,
		maxLimit:     analysis.MaxRankLimit,
	}
}

// SetRankLimits overrides the default and maximum result counts used by
// TopImpactEvents. Non-positive values keep the current limits.
func (s *AnalyticsService) SetRankLimits(defaultLimit, maxLimit int) {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
}

func (s *AnalyticsService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// linkFilter validates an optional date range and builds the symbol-scoped
// read filter shared by the reporting operations.
func linkFilter(symbol, start, end string) (store.LinkFilter, error) {
	dr, err := analysis.ParseDateRange(start, end)
	if err != nil {
		return store.LinkFilter{}, apierrors.ErrValidation("date_range", err.Error())
	}
	return store.LinkFilter{Symbol: symbol, From: dr.From, To: dr.To}, nil
}

// EventsBySymbol returns the link details for one currency symbol,
// optionally scoped to a date range.
func (s *AnalyticsService) EventsBySymbol(ctx context.Context, symbol, start, end string) ([]domain.LinkDetail, error) {
	if symbol == "" {
		return nil, apierrors.ErrValidation("symbol", "is required")
	}

	filter, err := linkFilter(symbol, start, end)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListLinkDetails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list links for %s: %w", symbol, err)
	}
	return links, nil
}

// TopImpactEvents returns the highest-impact event/currency links,
// optionally scoped to a symbol and date range. The limit is clamped to
// the configured range.
func (s *AnalyticsService) TopImpactEvents(ctx context.Context, symbol string, limit int, start, end string) ([]analysis.RankedEvent, error) {
	filter, err := linkFilter(symbol, start, end)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListLinkDetails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return analysis.RankTopImpact(links, s.clampLimit(limit)), nil
}

// CorrelationSummary computes the full correlation report for a symbol,
// optionally scoped to a date range.
func (s *AnalyticsService) CorrelationSummary(ctx context.Context, symbol, start, end string) (*analysis.Summary, error) {
	if symbol == "" {
		return nil, apierrors.ErrValidation("symbol", "is required")
	}

	filter, err := linkFilter(symbol, start, end)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListLinkDetails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list links for %s: %w", symbol, err)
	}
	return analysis.Summarize(links, symbol)
}

// CorrelationByMetric computes the impact-score correlation against one
// named metric for a symbol, optionally scoped to a date range.
func (s *AnalyticsService) CorrelationByMetric(ctx context.Context, symbol, metric, start, end string) (*MetricCorrelation, error) {
	if symbol == "" {
		return nil, apierrors.ErrValidation("symbol", "is required")
	}
	if metric != MetricDailyReturn && metric != MetricVolatility {
		return nil, apierrors.ErrValidation("metric", fmt.Sprintf("must be %q or %q", MetricDailyReturn, MetricVolatility))
	}

	filter, err := linkFilter(symbol, start, end)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListLinkDetails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list links for %s: %w", symbol, err)
	}

	var scores, values []float64
	for _, l := range links {
		value := l.DailyReturn
		if metric == MetricVolatility {
			value = l.Volatility
		}
		if !isFinite(l.ImpactScore) || !isFinite(value) {
			continue
		}
		scores = append(scores, l.ImpactScore)
		values = append(values, value)
	}
	if len(scores) == 0 {
		return nil, analysis.ErrNoValidData
	}

	coeff := analysis.Round(analysis.Pearson(scores, values), 6)
	return &MetricCorrelation{
		Symbol:     symbol,
		Metric:     metric,
		DataPoints: len(scores),
		Result:     analysis.Interpret(coeff),
	}, nil
}

// Rebuild recomputes all event/currency links and records run metrics.
func (s *AnalyticsService) Rebuild(ctx context.Context) (*relations.Result, error) {
	start := time.Now()
	result, err := s.builder.Rebuild(ctx)

	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		created, updated := 0, 0
		if result != nil {
			created, updated = result.Created, result.Updated
		}
		s.metrics.ObserveRebuild(status, created, updated, time.Since(start))
	}

	return result, err
}

// Stats returns aggregate statistics over the persisted link set.
func (s *AnalyticsService) Stats(ctx context.Context) (*domain.LinkStats, error) {
	return s.store.LinkStats(ctx)
}

// MappingCoverage reports which stored countries, event types, and
// outcomes the scoring tables cover.
func (s *AnalyticsService) MappingCoverage(ctx context.Context) (*impact.Coverage, error) {
	attrs, err := s.store.DistinctEventAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list distinct event attributes: %w", err)
	}
	coverage := impact.CheckCoverage(attrs.Countries, attrs.EventTypes, attrs.Outcomes)
	return &coverage, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
