// Package impact implements the event impact scoring engine: a pure,
// deterministic mapping from (country, event type, outcome) to a composite
// severity score in [0, 10].
package impact

// Default scores applied when a lookup key is absent or unknown. Missing
// data is a policy decision here, never an error.
const (
	DefaultCountryScore   = 2.0
	DefaultEventTypeScore = 3.0
	DefaultMultiplier     = 1.0
)

// Weights applied to the country and event-type components. The outcome's
// nominal 10% weight is folded into the multiplier rather than added as a
// third additive term: the multiplier scales the sum of the two weighted
// components. This is the calibrated behavior of the scoring model and must
// not be "corrected" into a three-term weighted sum.
const (
	countryWeight   = 0.4
	eventTypeWeight = 0.5
)

// Score computes the impact score for an event described by its country,
// event type, and outcome. Unknown or empty values resolve to the documented
// defaults. The result is always within [0, 10].
func Score(country, eventType, outcome string) float64 {
	countryScore, ok := countrySignificance[country]
	if !ok {
		countryScore = DefaultCountryScore
	}

	typeScore, ok := eventTypeSeverity[eventType]
	if !ok {
		typeScore = DefaultEventTypeScore
	}

	multiplier, ok := outcomeMultiplier[outcome]
	if !ok {
		multiplier = DefaultMultiplier
	}

	weighted := (countryScore*countryWeight + typeScore*eventTypeWeight) * multiplier

	return clamp(weighted, 0, 10)
}

// ScoreOptional is Score for nullable inputs, as stored on events whose
// descriptive fields are optional.
func ScoreOptional(country, eventType, outcome *string) float64 {
	return Score(deref(country), deref(eventType), deref(outcome))
}

// KnownCountries returns the number of countries in the significance table.
func KnownCountries() int { return len(countrySignificance) }

// KnownEventTypes returns the number of event types in the severity table.
func KnownEventTypes() int { return len(eventTypeSeverity) }

// KnownOutcomes returns the number of outcomes in the multiplier table.
func KnownOutcomes() int { return len(outcomeMultiplier) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
