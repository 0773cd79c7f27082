package domain

import (
	"time"
)

// CurrencyRecord represents one daily OHLCV observation for a cryptocurrency.
// The triple (Name, Symbol, Date) is the natural key used for import
// deduplication. Price fields are pointers: source data is patchy and a
// missing value is distinct from zero.
type CurrencyRecord struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name" validate:"required"`
	Symbol    string     `json:"symbol" db:"symbol" validate:"required"`
	Date      time.Time  `json:"date" db:"date"`
	Open      *float64   `json:"open,omitempty" db:"open"`
	High      *float64   `json:"high,omitempty" db:"high"`
	Low       *float64   `json:"low,omitempty" db:"low"`
	Close     *float64   `json:"close,omitempty" db:"close"`
	Volume    *float64   `json:"volume,omitempty" db:"volume"`
	Marketcap *float64   `json:"marketcap,omitempty" db:"marketcap"`
}

// Day returns the record's calendar day truncated to UTC midnight.
func (c CurrencyRecord) Day() time.Time {
	return Day(c.Date)
}

// HasCompleteOHLC reports whether the record is eligible for metric
// derivation: all four price fields present and a non-zero open.
func (c CurrencyRecord) HasCompleteOHLC() bool {
	if c.Open == nil || c.High == nil || c.Low == nil || c.Close == nil {
		return false
	}
	return *c.Open != 0
}
