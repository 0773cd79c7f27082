// Package metrics derives per-day financial metrics from OHLC observations.
// All functions are pure and never fail: a missing or zero open price
// resolves to 0 instead of dividing by it.
package metrics

// DailyReturn computes the open-to-close percentage change for one day.
// Returns 0 when open is zero.
func DailyReturn(open, close float64) float64 {
	if open == 0 {
		return 0
	}
	return ((close - open) / open) * 100
}

// Volatility computes the high-low spread as a percentage of the open.
// Returns 0 when open is zero.
func Volatility(open, high, low float64) float64 {
	if open == 0 {
		return 0
	}
	return ((high - low) / open) * 100
}
