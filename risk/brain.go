package risk

import "fmt"

// Verdict is the triage classification of a proposed engagement.
type Verdict int

const (
	AllowFull Verdict = iota
	AllowReduced
	Skip
)

func (v Verdict) String() string {
	switch v {
	case AllowFull:
		return "allow-full"
	case AllowReduced:
		return "allow-reduced"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

// Proposal is the brain's view of a candidate engagement. RiskPips and
// RewardPips are the stop distance and the distance to the nearest take-profit
// level; OpenPositions is the count of currently live positions on the
// account.
type Proposal struct {
	Units         float64
	RiskPips      float64
	RewardPips    float64
	OpenPositions int
}

// Triage is the brain's answer: whether to trade, and at what size.
type Triage struct {
	Verdict    Verdict
	Multiplier float64
	Units      float64
	Reason     string
}

// Brain converts account drawdown and market regime into a sizing decision.
// It holds no mutable state: Account mutation belongs to the lifecycle
// manager, which keeps triage side-effect-free and independently testable.
type Brain struct {
	Ladder  Ladder
	Regimes RegimeTable

	// Floor is the minimum combined multiplier below which engagements are
	// skipped entirely; it protects capital when deep drawdown coincides
	// with a hostile regime.
	Floor float64

	// Portfolio guards. Zero disables a guard.
	MaxOpenPositions int
	MinRR            float64
}

// fullSizeTolerance treats combined multipliers this close to 1.0 as full
// size, so a 1.0 ladder tier times a 1.0 regime never reports "reduced".
const fullSizeTolerance = 1e-9

// Evaluate triages a proposal against the latest committed account snapshot.
// It never fails: every outcome is a verdict, including the degenerate ones
// (zero risk distance, empty account).
func (b Brain) Evaluate(p Proposal, acct Snapshot, regime Regime) Triage {
	if p.Units <= 0 {
		return Triage{Verdict: Skip, Reason: "units must be positive"}
	}
	if p.RiskPips <= 0 {
		return Triage{Verdict: Skip, Reason: "zero risk distance"}
	}
	if b.MaxOpenPositions > 0 && p.OpenPositions >= b.MaxOpenPositions {
		return Triage{Verdict: Skip, Reason: fmt.Sprintf(
			"open positions %d >= max %d", p.OpenPositions, b.MaxOpenPositions)}
	}
	if b.MinRR > 0 {
		rr := p.RewardPips / p.RiskPips
		if rr < b.MinRR {
			return Triage{Verdict: Skip, Reason: fmt.Sprintf(
				"rr %.2f below minimum %.2f", rr, b.MinRR)}
		}
	}

	dd := acct.Drawdown()
	mult := b.Ladder.Select(dd) * b.Regimes.Multiplier(regime)

	if mult < b.Floor {
		return Triage{
			Verdict:    Skip,
			Multiplier: mult,
			Reason: fmt.Sprintf("combined multiplier %.3f below floor %.3f at %.1f%% drawdown",
				mult, b.Floor, dd*100),
		}
	}
	if mult >= 1-fullSizeTolerance {
		return Triage{Verdict: AllowFull, Multiplier: 1, Units: p.Units}
	}
	return Triage{
		Verdict:    AllowReduced,
		Multiplier: mult,
		Units:      p.Units * mult,
		Reason:     fmt.Sprintf("size scaled to %.1f%% at %.1f%% drawdown", mult*100, dd*100),
	}
}
