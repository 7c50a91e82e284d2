package market

import "math"

// PipSize returns the price size of one pip for a given pip location.
// EUR_USD has pip location -4 (1 pip = 0.0001), USD_JPY has -2 (0.01).
func PipSize(loc int) float64 {
	return math.Pow(10, float64(loc))
}

// PipsBetween converts the absolute distance between two prices into pips.
func PipsBetween(a, b float64, loc int) float64 {
	return math.Abs(a-b) / PipSize(loc)
}

// PipOffset converts a pip distance into a signed price offset.
func PipOffset(pips float64, loc int) float64 {
	return pips * PipSize(loc)
}
