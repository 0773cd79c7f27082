package analysis

import (
	"fmt"
	"time"
)

// DateRange is an optional inclusive calendar interval used to scope
// analytics reads. A nil boundary means unbounded on that side.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// dateLayouts accepted for range boundaries, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDateRange validates an optional start/end pair. Empty strings mean
// an open boundary; a malformed date or a reversed range is an error rather
// than being silently dropped.
func ParseDateRange(start, end string) (DateRange, error) {
	var dr DateRange

	if start != "" {
		t, err := parseDate(start)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		dr.From = &t
	}

	if end != "" {
		t, err := parseDate(end)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		dr.To = &t
	}

	if dr.From != nil && dr.To != nil && dr.From.After(*dr.To) {
		return DateRange{}, fmt.Errorf("start date %s is later than end date %s",
			dr.From.Format("2006-01-02"), dr.To.Format("2006-01-02"))
	}

	return dr, nil
}

// Contains reports whether t falls inside the range.
func (dr DateRange) Contains(t time.Time) bool {
	if dr.From != nil && t.Before(*dr.From) {
		return false
	}
	if dr.To != nil && t.After(*dr.To) {
		return false
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
