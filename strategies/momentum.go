package strategies

import (
	"github.com/rustyeddy/riskgate/indicators"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/sim"
)

// Momentum enters on an EMA cross at bar close with a fixed stop and a split
// target: half the size at one risk distance, the rest at two.
type Momentum struct {
	Instrument string
	Units      float64
	StopPips   float64
	Fast       int
	Slow       int

	fast *indicators.EMA
	slow *indicators.EMA

	lastDiff     float64
	haveLastDiff bool
}

func NewMomentum(p Params) *Momentum {
	fast, slow := p.Fast, p.Slow
	if fast <= 0 {
		fast = 12
	}
	if slow <= fast {
		slow = 4 * fast
	}
	stop := p.StopPips
	if stop <= 0 {
		stop = 10
	}
	return &Momentum{
		Instrument: p.Instrument,
		Units:      p.Units,
		StopPips:   stop,
		Fast:       fast,
		Slow:       slow,
		fast:       indicators.NewEMA(fast),
		slow:       indicators.NewEMA(slow),
	}
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) Reset() {
	s.fast.Reset()
	s.slow.Reset()
	s.haveLastDiff = false
	s.lastDiff = 0
}

func (s *Momentum) OnBar(ctx *Context, b market.Bar) []sim.Engagement {
	s.fast.Update(b.Close)
	s.slow.Update(b.Close)
	if !s.fast.Ready() || !s.slow.Ready() {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()
	if !s.haveLastDiff {
		s.lastDiff = diff
		s.haveLastDiff = true
		return nil
	}

	bullCross := diff > 0 && s.lastDiff <= 0
	bearCross := diff < 0 && s.lastDiff >= 0
	s.lastDiff = diff

	if !bullCross && !bearCross {
		return nil
	}
	// One position at a time.
	if ctx != nil && ctx.Open > 0 {
		return nil
	}

	side := sim.Long
	if bearCross {
		side = sim.Short
	}
	return []sim.Engagement{{
		Instrument: s.Instrument,
		Side:       side,
		Entry:      b.Close,
		StopPips:   s.StopPips,
		Takes: []sim.TakeLevel{
			{Pips: s.StopPips, Fraction: 0.5},
			{Pips: 2 * s.StopPips, Fraction: 0.5},
		},
		Units: s.Units,
		Tag:   s.Name(),
	}}
}
