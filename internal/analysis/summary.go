package analysis

import (
	"errors"
	"math"
	"time"

	"cryptopulse/pkg/contracts/domain"
)

// ErrNoValidData is returned when a summary is requested over a link set
// with no complete (impact score, daily return, volatility) triples.
var ErrNoValidData = errors.New("no valid data points for correlation analysis")

// Summary is the full correlation report for one symbol over a date range:
// both named correlations against the impact score, per-series means, the
// real date span of the underlying rows, and the stronger-correlation
// verdict.
type Summary struct {
	Symbol     string    `json:"symbol"`
	DataPoints int       `json:"data_points"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`

	AvgImpactScore float64 `json:"avg_impact_score"`
	AvgDailyReturn float64 `json:"avg_daily_return"`
	AvgVolatility  float64 `json:"avg_volatility"`

	DailyReturnCorrelation Interpretation `json:"daily_return_correlation"`
	VolatilityCorrelation  Interpretation `json:"volatility_correlation"`
	StrongestCorrelation   string         `json:"strongest_correlation"`
}

// Summarize computes the correlation summary for the given symbol-scoped
// links. Rows with a non-finite value in any of the three analytic fields
// are dropped before computing; if none survive, ErrNoValidData is returned.
func Summarize(links []domain.LinkDetail, symbol string) (*Summary, error) {
	var (
		impactScores []float64
		dailyReturns []float64
		volatilities []float64
		minDate      time.Time
		maxDate      time.Time
	)

	for _, l := range links {
		if !finite(l.ImpactScore) || !finite(l.DailyReturn) || !finite(l.Volatility) {
			continue
		}
		impactScores = append(impactScores, l.ImpactScore)
		dailyReturns = append(dailyReturns, l.DailyReturn)
		volatilities = append(volatilities, l.Volatility)

		if minDate.IsZero() || l.Date.Before(minDate) {
			minDate = l.Date
		}
		if maxDate.IsZero() || l.Date.After(maxDate) {
			maxDate = l.Date
		}
	}

	if len(impactScores) == 0 {
		return nil, ErrNoValidData
	}

	drCorr := Round(Pearson(impactScores, dailyReturns), 6)
	volCorr := Round(Pearson(impactScores, volatilities), 6)

	return &Summary{
		Symbol:                 symbol,
		DataPoints:             len(impactScores),
		StartDate:              minDate,
		EndDate:                maxDate,
		AvgImpactScore:         Round(Mean(impactScores), 4),
		AvgDailyReturn:         Round(Mean(dailyReturns), 6),
		AvgVolatility:          Round(Mean(volatilities), 6),
		DailyReturnCorrelation: Interpret(drCorr),
		VolatilityCorrelation:  Interpret(volCorr),
		StrongestCorrelation:   StrongerCorrelation(drCorr, volCorr),
	}, nil
}

// Round rounds v to the given number of decimal places. Persisted and
// reported analytics use fixed precision so that re-runs are comparable
// byte-for-byte.
func Round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
