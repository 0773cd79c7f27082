package analysis

import (
	"fmt"
	"math"
)

// Strength bands for |r|, from strongest down.
const (
	strongThreshold   = 0.7
	moderateThreshold = 0.5
	weakThreshold     = 0.3
)

// Interpretation is a plain-language reading of a correlation coefficient.
type Interpretation struct {
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
}

// Interpret classifies a correlation coefficient into a strength band by
// absolute value and a direction by sign.
func Interpret(r float64) Interpretation {
	abs := math.Abs(r)

	var strength string
	switch {
	case abs >= strongThreshold:
		strength = "strong"
	case abs >= moderateThreshold:
		strength = "moderate"
	case abs >= weakThreshold:
		strength = "weak"
	default:
		strength = "very weak"
	}

	direction := "positive"
	if r < 0 {
		direction = "negative"
	}

	return Interpretation{Coefficient: r, Strength: strength, Direction: direction}
}

// String renders the interpretation the way reports phrase it,
// e.g. "strong positive correlation (0.750)".
func (i Interpretation) String() string {
	return fmt.Sprintf("%s %s correlation (%.3f)", i.Strength, i.Direction, i.Coefficient)
}

// StrongerCorrelation reports which of the two named coefficients has the
// larger absolute value, or that they are roughly equal on a tie.
func StrongerCorrelation(dailyReturnCorr, volatilityCorr float64) string {
	absDR := math.Abs(dailyReturnCorr)
	absVol := math.Abs(volatilityCorr)

	switch {
	case absDR > absVol:
		return fmt.Sprintf("Daily Return has a stronger correlation (%.3f vs %.3f)", dailyReturnCorr, volatilityCorr)
	case absVol > absDR:
		return fmt.Sprintf("Volatility has a stronger correlation (%.3f vs %.3f)", volatilityCorr, dailyReturnCorr)
	default:
		return fmt.Sprintf("The correlations are roughly equal (%.3f vs %.3f)", dailyReturnCorr, volatilityCorr)
	}
}
