package domain

import (
	"time"
)

// Event represents a historical world incident that may have moved markets.
// The pair (IncidentName, Date) is the natural key used for import
// deduplication; everything beyond it is descriptive and optional.
type Event struct {
	ID                   int64      `json:"id" db:"id"`
	IncidentName         string     `json:"name_of_incident" db:"name_of_incident" validate:"required"`
	Date                 time.Time  `json:"date" db:"date"`
	Country              *string    `json:"country,omitempty" db:"country"`
	EventType            *string    `json:"type_of_event,omitempty" db:"type_of_event"`
	PlaceName            *string    `json:"place_name,omitempty" db:"place_name"`
	Impact               *string    `json:"impact,omitempty" db:"impact"`
	AffectedPopulation   *string    `json:"affected_population,omitempty" db:"affected_population"`
	ImportantPersonGroup *string    `json:"important_person_group,omitempty" db:"important_person_group"`
	Outcome              *string    `json:"outcome,omitempty" db:"outcome"`
}

// Outcome labels observed in the historical dataset. The set is open:
// unknown labels are accepted and scored with a neutral multiplier.
const (
	OutcomePositive = "Positive"
	OutcomeNegative = "Negative"
	OutcomeMixed    = "Mixed"
	OutcomeOngoing  = "Ongoing"
)

// Day returns the event's calendar day truncated to UTC midnight.
// Relationship matching operates on calendar days only; any time-of-day
// component carried by the source data is ignored.
func (e Event) Day() time.Time {
	return Day(e.Date)
}

// HasScoringData reports whether the event carries enough data to be
// eligible for relationship building (country and event type present).
func (e Event) HasScoringData() bool {
	return e.Country != nil && *e.Country != "" && e.EventType != nil && *e.EventType != ""
}

// Day truncates t to UTC midnight of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
