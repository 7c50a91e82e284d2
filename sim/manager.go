// Package sim holds the position lifecycle manager: the bar-by-bar state
// machine shared verbatim by the backtest driver and the live router. Keeping
// both paths on this one implementation is the core correctness guarantee;
// the decision logic is never forked between modes.
package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/riskgate/internal/id"
	"github.com/rustyeddy/riskgate/laws"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
)

// Config assembles a Manager for one instrument.
type Config struct {
	Instrument market.InstrumentMeta
	Laws       laws.Config
	Costs      CostModel
	Brain      risk.Brain
	Account    *risk.Account
}

// Outcome is the result of submitting one engagement.
type Outcome struct {
	Accepted  bool
	Position  *Position
	Triage    risk.Triage
	Rejection *Rejection
}

// dust absorbs float residue when take fractions do not multiply out exactly.
const dust = 1e-9

// Manager owns every open position for one instrument and advances them one
// bar at a time. Positions are never handed out for mutation.
type Manager struct {
	meta   market.InstrumentMeta
	laws   laws.Config
	costs  CostModel
	brain  risk.Brain
	acct   *risk.Account
	regime risk.Regime

	positions  []*Position
	closed     []ClosedTrade
	rejections []Rejection
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Account == nil {
		return nil, fmt.Errorf("sim: account is required")
	}
	if err := cfg.Laws.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if err := cfg.Costs.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	return &Manager{
		meta:   cfg.Instrument,
		laws:   cfg.Laws,
		costs:  cfg.Costs,
		brain:  cfg.Brain,
		acct:   cfg.Account,
		regime: risk.RegimeTrending,
	}, nil
}

// SetRegime updates the market-regime label consumed by triage. The label
// comes from an external classifier; the manager never computes it.
func (m *Manager) SetRegime(r risk.Regime) { m.regime = r }

// Submit runs an engagement through validation, risk-brain triage and the
// Tourniquet ceiling, in that order. Triage decides size first; the hard
// safety ceiling has the last word.
func (m *Manager) Submit(e Engagement, now time.Time) Outcome {
	if err := e.Validate(); err != nil {
		return m.refuse(Rejection{
			Time: now, Kind: RejectInvalid, Reason: err.Error(), Tag: e.Tag,
		})
	}

	tri := m.brain.Evaluate(risk.Proposal{
		Units:         e.Units,
		RiskPips:      e.StopPips,
		RewardPips:    e.RewardPips(),
		OpenPositions: m.OpenCount(),
	}, m.acct.Snapshot(), m.regime)
	if tri.Verdict == risk.Skip {
		out := m.refuse(Rejection{
			Time: now, Kind: RejectTriage, Reason: tri.Reason, Tag: e.Tag,
		})
		out.Triage = tri
		return out
	}

	if d := laws.CheckEngagement(m.laws, e.StopPips); d.Kind == laws.Reject {
		out := m.refuse(Rejection{
			Time: now, Kind: RejectLaw, Law: d.Law, Reason: d.Reason, Tag: e.Tag,
		})
		out.Triage = tri
		return out
	}

	dir := float64(e.Side)
	p := &Position{
		ID:           id.New(),
		Instrument:   e.Instrument,
		Side:         e.Side,
		Entry:        e.Entry,
		Stop:         e.Entry - dir*market.PipOffset(e.StopPips, m.meta.PipLocation),
		Units:        tri.Units,
		Remaining:    tri.Units,
		OrigRiskPips: e.StopPips,
		OpenTime:     now,
		Tag:          e.Tag,
		state:        Open,
	}
	for _, tl := range e.Takes {
		p.takes = append(p.takes, take{
			Price:    e.Entry + dir*market.PipOffset(tl.Pips, m.meta.PipLocation),
			Fraction: tl.Fraction,
		})
	}
	m.positions = append(m.positions, p)

	return Outcome{Accepted: true, Position: p, Triage: tri}
}

func (m *Manager) refuse(r Rejection) Outcome {
	m.rejections = append(m.rejections, r)
	return Outcome{Rejection: &m.rejections[len(m.rejections)-1]}
}

// OnBar advances every live position through one bar and returns the trades
// that closed on it. Per position the order is fixed: stop check, take-profit
// fills, then the safety laws. The stop is checked before any take-profit so
// a bar that crosses both resolves against the trader.
func (m *Manager) OnBar(b market.Bar) []ClosedTrade {
	var closedNow []ClosedTrade

	for _, p := range m.positions {
		if p.state == Closed {
			continue
		}

		if p.stopHit(b) {
			closedNow = append(closedNow, m.closeRemaining(p, b, p.Stop, ReasonStopLoss, ""))
			continue
		}

		var lastFill float64
		for p.Remaining > 0 {
			t := p.nextTake(b)
			if t == nil {
				break
			}
			units := t.Fraction * p.Units
			if units > p.Remaining {
				units = p.Remaining
			}
			m.realize(p, units, t.Price, b)
			t.Filled = true
			p.PartialFills++
			p.state = Partial
			lastFill = t.Price
		}
		if p.Remaining <= dust*p.Units {
			p.Remaining = 0
			p.state = Closed
			closedNow = append(closedNow, m.record(p, b, lastFill, ReasonTakeProfit, ""))
			continue
		}

		p.BarsHeld++

		switch d := laws.Evaluate(m.laws, p.view(m.meta.PipLocation), b.Close); d.Kind {
		case laws.ForceClose:
			closedNow = append(closedNow, m.closeRemaining(p, b, b.Close, ReasonLaw, d.Law))
		case laws.MoveStop:
			p.Stop = d.NewStop
			if d.Law == laws.Winner {
				p.Locked = true
			}
		}
	}

	m.compact()
	return closedNow
}

// CloseAll force-closes every live position at the given price, typically the
// last bar's close at feed exhaustion.
func (m *Manager) CloseAll(b market.Bar, reason CloseReason) []ClosedTrade {
	var out []ClosedTrade
	for _, p := range m.positions {
		if p.state == Closed {
			continue
		}
		out = append(out, m.closeRemaining(p, b, b.Close, reason, ""))
	}
	m.compact()
	return out
}

// ForceClose terminates one position by ID, used by the live router when the
// broker adapter rejects an order it already holds.
func (m *Manager) ForceClose(posID string, b market.Bar, reason CloseReason) (ClosedTrade, error) {
	for _, p := range m.positions {
		if p.ID != posID || p.state == Closed {
			continue
		}
		ct := m.closeRemaining(p, b, b.Close, reason, "")
		m.compact()
		return ct, nil
	}
	return ClosedTrade{}, fmt.Errorf("sim: no open position %q", posID)
}

// realize books one fill: gross P/L minus fee and slippage, committed to the
// account immediately.
func (m *Manager) realize(p *Position, units, price float64, b market.Bar) {
	gross := float64(p.Side) * (price - p.Entry) * units
	net := gross - m.costs.Fee(units) - m.costs.Slippage(units, b.Range())
	p.realized += net
	p.Remaining -= units
	m.acct.Apply(net)
}

func (m *Manager) closeRemaining(p *Position, b market.Bar, price float64, reason CloseReason, law laws.Law) ClosedTrade {
	if p.Remaining > 0 {
		m.realize(p, p.Remaining, price, b)
	}
	p.Remaining = 0
	p.state = Closed
	return m.record(p, b, price, reason, law)
}

func (m *Manager) record(p *Position, b market.Bar, exit float64, reason CloseReason, law laws.Law) ClosedTrade {
	ct := ClosedTrade{
		ID:         p.ID,
		Instrument: p.Instrument,
		Side:       p.Side,
		Units:      p.Units,
		Entry:      p.Entry,
		Exit:       exit,
		OpenTime:   p.OpenTime,
		CloseTime:  b.Time,
		BarsHeld:   p.BarsHeld,
		PnL:        p.realized,
		Reason:     reason,
		Law:        law,
		Tag:        p.Tag,
	}
	m.closed = append(m.closed, ct)
	return ct
}

// compact drops closed positions from the live set.
func (m *Manager) compact() {
	live := m.positions[:0]
	for _, p := range m.positions {
		if p.state != Closed {
			live = append(live, p)
		}
	}
	m.positions = live
}

// OpenCount returns the number of live positions.
func (m *Manager) OpenCount() int {
	n := 0
	for _, p := range m.positions {
		if p.state != Closed {
			n++
		}
	}
	return n
}

// Open returns the live positions. Callers must treat them as read-only.
func (m *Manager) Open() []*Position {
	out := make([]*Position, 0, len(m.positions))
	for _, p := range m.positions {
		if p.state != Closed {
			out = append(out, p)
		}
	}
	return out
}

// UnrealizedPL marks every live position against the given price.
func (m *Manager) UnrealizedPL(price float64) float64 {
	total := 0.0
	for _, p := range m.positions {
		if p.state != Closed {
			total += p.UnrealizedPL(price)
		}
	}
	return total
}

// Ledger returns every trade closed so far, in close order.
func (m *Manager) Ledger() []ClosedTrade { return m.closed }

// Rejections returns every refused engagement so far.
func (m *Manager) Rejections() []Rejection { return m.rejections }
