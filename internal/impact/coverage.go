package impact

import "sort"

// FieldCoverage reports how well the scoring tables cover one field of the
// imported dataset.
type FieldCoverage struct {
	Mapped   int      `json:"mapped"`
	Total    int      `json:"total"`
	Unmapped []string `json:"unmapped"`
}

// Coverage reports table coverage for the distinct countries, event types,
// and outcomes present in the dataset. Unmapped values are not an error
// (they score with defaults) but they are worth surfacing: a long unmapped
// list usually means the tables need new entries after a large import.
type Coverage struct {
	Countries  FieldCoverage `json:"countries"`
	EventTypes FieldCoverage `json:"event_types"`
	Outcomes   FieldCoverage `json:"outcomes"`
}

// CheckCoverage computes scoring-table coverage for the given distinct
// field values. Unmapped values are returned sorted for stable output.
func CheckCoverage(countries, eventTypes, outcomes []string) Coverage {
	return Coverage{
		Countries:  fieldCoverage(countries, countrySignificance),
		EventTypes: fieldCoverage(eventTypes, eventTypeSeverity),
		Outcomes:   fieldCoverage(outcomes, outcomeMultiplier),
	}
}

func fieldCoverage(values []string, table map[string]float64) FieldCoverage {
	cov := FieldCoverage{Total: len(values), Unmapped: []string{}}
	for _, v := range values {
		if _, ok := table[v]; ok {
			cov.Mapped++
		} else {
			cov.Unmapped = append(cov.Unmapped, v)
		}
	}
	sort.Strings(cov.Unmapped)
	return cov
}
