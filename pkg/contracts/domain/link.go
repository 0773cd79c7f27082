package domain

import (
	"time"
)

// EventCurrencyLink is the materialized pairing of one event and one
// currency-day observation sharing a calendar day, carrying the derived
// analytics fields. It is pure derived data: the relationship builder may
// regenerate every row from Events and CurrencyRecords at any time.
// (EventID, CurrencyID, Date) is unique; re-computation overwrites the
// derived fields in place rather than inserting new rows.
type EventCurrencyLink struct {
	ID          int64     `json:"id" db:"id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	CurrencyID  int64     `json:"currency_id" db:"currency_id"`
	Date        time.Time `json:"date" db:"date"`
	ImpactScore float64   `json:"event_impact_score" db:"event_impact_score"`
	DailyReturn float64   `json:"daily_return" db:"daily_return"`
	Volatility  float64   `json:"volatility" db:"volatility"`
}

// LinkDetail is a link joined with descriptive fields from its parents,
// as returned by symbol-scoped analytics reads.
type LinkDetail struct {
	EventCurrencyLink

	EventName      string  `json:"event_name"`
	EventType      *string `json:"event_type,omitempty"`
	Country        *string `json:"country,omitempty"`
	CurrencyName   string  `json:"currency_name"`
	CurrencySymbol string  `json:"currency_symbol"`
}

// LinkStats summarises the persisted link set after a rebuild.
type LinkStats struct {
	TotalLinks       int     `json:"total_links"`
	UniqueEvents     int     `json:"unique_events"`
	UniqueCurrencies int     `json:"unique_currencies"`
	AvgImpactScore   float64 `json:"avg_impact_score"`
	MinImpactScore   float64 `json:"min_impact_score"`
	MaxImpactScore   float64 `json:"max_impact_score"`
}
