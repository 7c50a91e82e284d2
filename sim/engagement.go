package sim

import "fmt"

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	if s == Short {
		return "short"
	}
	return "long"
}

// TakeLevel is one partial take-profit target: a distance from entry in pips
// and the fraction of the original size to close when it fills.
type TakeLevel struct {
	Pips     float64
	Fraction float64
}

// Engagement is a strategy's proposal to open a position. It exists only
// until accepted or rejected; the accepted form is a Position.
type Engagement struct {
	Instrument string
	Side       Side
	Entry      float64
	StopPips   float64
	Takes      []TakeLevel
	Units      float64
	Tag        string // strategy label, carried into the ledger
}

// Validate rejects malformed engagements locally. A failing engagement is not
// a run error: the strategy may retry on a later bar.
func (e Engagement) Validate() error {
	if e.Side != Long && e.Side != Short {
		return fmt.Errorf("engagement side must be long or short")
	}
	if e.Units <= 0 {
		return fmt.Errorf("engagement units must be positive, got %.2f", e.Units)
	}
	if e.Entry <= 0 {
		return fmt.Errorf("engagement entry must be positive, got %.5f", e.Entry)
	}
	if e.StopPips <= 0 {
		return fmt.Errorf("engagement stop distance must be positive, got %.2f pips", e.StopPips)
	}
	if len(e.Takes) == 0 {
		return fmt.Errorf("engagement needs at least one take-profit level")
	}

	sum := 0.0
	prev := 0.0
	for i, tl := range e.Takes {
		if tl.Pips <= 0 {
			return fmt.Errorf("take level %d distance must be positive", i)
		}
		if tl.Pips <= prev {
			return fmt.Errorf("take levels must be ordered nearest-first")
		}
		if tl.Fraction <= 0 || tl.Fraction > 1 {
			return fmt.Errorf("take level %d fraction %.3f outside (0, 1]", i, tl.Fraction)
		}
		sum += tl.Fraction
		prev = tl.Pips
	}
	if sum > 1.0+1e-9 {
		return fmt.Errorf("take-profit fractions sum to %.3f, must not exceed 1.0", sum)
	}
	return nil
}

// RewardPips is the distance to the nearest take level, used for triage RR.
func (e Engagement) RewardPips() float64 {
	if len(e.Takes) == 0 {
		return 0
	}
	return e.Takes[0].Pips
}
