package strategies

import (
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/sim"
)

// OpenOnce proposes a single long engagement on the first bar it sees and
// then stays silent. It exists to exercise the full open-to-close lifecycle
// in tests and demos.
type OpenOnce struct {
	Instrument string
	Units      float64
	StopPips   float64
	TakePips   float64

	fired bool
}

func (s *OpenOnce) Name() string { return "open-once" }

func (s *OpenOnce) Reset() { s.fired = false }

func (s *OpenOnce) OnBar(ctx *Context, b market.Bar) []sim.Engagement {
	_ = ctx
	if s.fired {
		return nil
	}
	s.fired = true

	stop := s.StopPips
	if stop <= 0 {
		stop = 10
	}
	take := s.TakePips
	if take <= 0 {
		take = 2 * stop
	}

	return []sim.Engagement{{
		Instrument: s.Instrument,
		Side:       sim.Long,
		Entry:      b.Close,
		StopPips:   stop,
		Takes:      []sim.TakeLevel{{Pips: take, Fraction: 1.0}},
		Units:      s.Units,
		Tag:        s.Name(),
	}}
}
