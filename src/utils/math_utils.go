package utils

import "math"

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

const (
	relTolerance = 1e-9
	absTolerance = 1e-12
)

// IsCloseToZero reports whether v is indistinguishable from zero given the
// accumulated floating point noise of repeated buys and sells.
func IsCloseToZero(v float64) bool {
	return math.Abs(v) <= math.Max(relTolerance*math.Abs(v), absTolerance)
}
