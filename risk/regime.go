package risk

import "fmt"

// Regime is the closed set of market-condition labels the brain understands.
// Classification itself is external (indicator-derived); the brain only maps
// the label to a sizing multiplier.
type Regime string

const (
	RegimeTrending Regime = "trending"
	RegimeRanging  Regime = "ranging"
	RegimeVolatile Regime = "volatile"
	RegimeQuiet    Regime = "quiet"
)

// ParseRegime normalizes a label from config or an external classifier.
func ParseRegime(s string) (Regime, error) {
	switch Regime(s) {
	case RegimeTrending, RegimeRanging, RegimeVolatile, RegimeQuiet:
		return Regime(s), nil
	default:
		return "", fmt.Errorf("unknown regime label %q", s)
	}
}

// RegimeTable maps regimes to sizing multipliers.
type RegimeTable map[Regime]float64

// DefaultRegimeTable trades full size in trends, trims ranges and chop, and
// halves size in high volatility.
func DefaultRegimeTable() RegimeTable {
	return RegimeTable{
		RegimeTrending: 1.0,
		RegimeRanging:  0.75,
		RegimeVolatile: 0.5,
		RegimeQuiet:    0.9,
	}
}

func (t RegimeTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("regime table must not be empty")
	}
	for r, m := range t {
		if _, err := ParseRegime(string(r)); err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("regime %s multiplier %.3f negative", r, m)
		}
	}
	return nil
}

// Multiplier returns the sizing multiplier for a label. A label missing from
// the table falls back to the most conservative multiplier present rather
// than silently trading full size.
func (t RegimeTable) Multiplier(r Regime) float64 {
	if m, ok := t[r]; ok {
		return m
	}
	min := 1.0
	for _, m := range t {
		if m < min {
			min = m
		}
	}
	return min
}
