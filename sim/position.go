package sim

import (
	"time"

	"github.com/rustyeddy/riskgate/laws"
	"github.com/rustyeddy/riskgate/market"
)

// State is the lifecycle stage of a position.
type State int

const (
	// Open: accepted at full size, no take-profit filled yet.
	Open State = iota
	// Partial: at least one take-profit filled, size reduced, still live.
	Partial
	// Closed: terminal, remaining size zero.
	Closed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Partial:
		return "partial"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// take is an armed take-profit target at an absolute price.
type take struct {
	Price    float64
	Fraction float64
	Filled   bool
}

// Position is the live representation of an accepted trade. It is owned
// exclusively by the Manager and never shared.
type Position struct {
	ID         string
	Instrument string
	Side       Side
	Entry      float64
	Stop       float64
	Units      float64 // original size after triage scaling
	Remaining  float64

	OrigRiskPips float64
	takes        []take

	Locked       bool // breakeven lock set by Winner
	PartialFills int
	BarsHeld     int
	OpenTime     time.Time
	Tag          string

	state    State
	realized float64 // accumulated net P/L from fills
}

func (p *Position) State() State { return p.state }

// Realized returns the net P/L realized so far, including partial fills.
func (p *Position) Realized() float64 { return p.realized }

// UnrealizedPL marks the remaining size against the given price.
func (p *Position) UnrealizedPL(price float64) float64 {
	return float64(p.Side) * (price - p.Entry) * p.Remaining
}

// view projects the position into the law evaluator's snapshot form.
func (p *Position) view(pipLocation int) laws.PositionView {
	return laws.PositionView{
		Direction:    int(p.Side),
		Entry:        p.Entry,
		Stop:         p.Stop,
		OrigRiskPips: p.OrigRiskPips,
		BarsHeld:     p.BarsHeld,
		PartialFills: p.PartialFills,
		Locked:       p.Locked,
		PipLocation:  pipLocation,
	}
}

// stopHit reports whether the bar crossed the stop price.
func (p *Position) stopHit(b market.Bar) bool {
	if p.Side == Long {
		return b.Low <= p.Stop
	}
	return b.High >= p.Stop
}

// nextTake returns the nearest unfilled take crossed by the bar, or nil.
func (p *Position) nextTake(b market.Bar) *take {
	for i := range p.takes {
		t := &p.takes[i]
		if t.Filled {
			continue
		}
		if p.Side == Long && b.High >= t.Price {
			return t
		}
		if p.Side == Short && b.Low <= t.Price {
			return t
		}
		// Takes are ordered nearest-first; if this one didn't fill,
		// later ones can't have either.
		return nil
	}
	return nil
}
