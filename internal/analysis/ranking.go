package analysis

import (
	"math"
	"sort"
	"time"

	"cryptopulse/pkg/contracts/domain"
)

// Fallback ranking limits, used when the caller does not configure its own.
const (
	DefaultRankLimit = 10
	MaxRankLimit     = 50
)

// RankedEvent is one row of the top-impact ranking: a link joined with its
// parents' descriptive fields, plus its 1-based rank after truncation.
type RankedEvent struct {
	Rank           int       `json:"rank"`
	EventName      string    `json:"event_name"`
	Date           time.Time `json:"date"`
	ImpactScore    float64   `json:"event_impact_score"`
	DailyReturn    float64   `json:"daily_return"`
	Volatility     float64   `json:"volatility"`
	EventType      *string   `json:"event_type,omitempty"`
	Country        *string   `json:"country,omitempty"`
	CurrencySymbol string    `json:"currency_symbol"`
}

// RankTopImpact sorts links by impact score descending, truncates to limit,
// and assigns 1-based ranks. A non-positive limit falls back to
// DefaultRankLimit; callers with configured limits resolve them first.
// The sort is stable: ties keep the relative order of the input, so
// repeated runs over the same data rank identically.
func RankTopImpact(links []domain.LinkDetail, limit int) []RankedEvent {
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	valid := make([]domain.LinkDetail, 0, len(links))
	for _, l := range links {
		if math.IsNaN(l.ImpactScore) || math.IsInf(l.ImpactScore, 0) {
			continue
		}
		valid = append(valid, l)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].ImpactScore > valid[j].ImpactScore
	})

	if len(valid) > limit {
		valid = valid[:limit]
	}

	ranked := make([]RankedEvent, len(valid))
	for i, l := range valid {
		ranked[i] = RankedEvent{
			Rank:           i + 1,
			EventName:      l.EventName,
			Date:           l.Date,
			ImpactScore:    l.ImpactScore,
			DailyReturn:    l.DailyReturn,
			Volatility:     l.Volatility,
			EventType:      l.EventType,
			Country:        l.Country,
			CurrencySymbol: l.CurrencySymbol,
		}
	}
	return ranked
}
