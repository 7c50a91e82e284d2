package risk

import (
	"fmt"
	"sort"
)

// Tier maps a drawdown threshold to a sizing multiplier. A tier applies from
// its threshold up to the next tier's threshold.
type Tier struct {
	Threshold  float64 `yaml:"threshold" json:"threshold"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// Ladder is the drawdown ladder: tiers ordered by ascending threshold with
// non-increasing multipliers. Selection picks the tier whose threshold is the
// greatest one not exceeding the current drawdown.
type Ladder struct {
	tiers []Tier
}

// NewLadder validates and sorts the tiers. The first tier must cover zero
// drawdown so selection is total over [0, 1).
func NewLadder(tiers []Tier) (Ladder, error) {
	if len(tiers) == 0 {
		return Ladder{}, fmt.Errorf("risk ladder needs at least one tier")
	}

	sorted := append([]Tier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	if sorted[0].Threshold != 0 {
		return Ladder{}, fmt.Errorf("risk ladder must start at threshold 0, got %.3f", sorted[0].Threshold)
	}
	for i, t := range sorted {
		if t.Threshold < 0 || t.Threshold >= 1 {
			return Ladder{}, fmt.Errorf("tier %d threshold %.3f outside [0, 1)", i, t.Threshold)
		}
		if t.Multiplier < 0 {
			return Ladder{}, fmt.Errorf("tier %d multiplier %.3f negative", i, t.Multiplier)
		}
		if i > 0 {
			if t.Threshold == sorted[i-1].Threshold {
				return Ladder{}, fmt.Errorf("duplicate tier threshold %.3f", t.Threshold)
			}
			if t.Multiplier > sorted[i-1].Multiplier {
				return Ladder{}, fmt.Errorf(
					"tier multipliers must not increase with drawdown: %.3f after %.3f",
					t.Multiplier, sorted[i-1].Multiplier)
			}
		}
	}
	return Ladder{tiers: sorted}, nil
}

// Select returns the multiplier for the given drawdown.
func (l Ladder) Select(drawdown float64) float64 {
	mult := 1.0
	for _, t := range l.tiers {
		if t.Threshold > drawdown {
			break
		}
		mult = t.Multiplier
	}
	return mult
}

// Tiers returns a copy for reporting.
func (l Ladder) Tiers() []Tier {
	return append([]Tier(nil), l.tiers...)
}
