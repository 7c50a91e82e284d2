package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/sim"
)

// Context carries the per-bar state a strategy may consult.
type Context struct {
	Index int // bar index within the run, starting at 0
	Open  int // live position count for the instrument
}

// Strategy proposes engagements once per closed bar. Implementations must be
// deterministic: the same bar sequence yields the same proposals. They never
// size or gate their own trades; that is the risk layer's job downstream.
type Strategy interface {
	Name() string
	Reset()
	OnBar(ctx *Context, b market.Bar) []sim.Engagement
}

var registry = make(map[string]Strategy)

func Register(name string, strat Strategy) {
	registry[name] = strat
}

func Get(name string) Strategy {
	return registry[name]
}

// Params is the flag-level configuration a strategy is built from.
type Params struct {
	Instrument string  `yaml:"instrument" json:"instrument"`
	Units      float64 `yaml:"units" json:"units"`
	StopPips   float64 `yaml:"stop_pips" json:"stop_pips"`
	TakePips   float64 `yaml:"take_pips" json:"take_pips"`
	Fast       int     `yaml:"fast" json:"fast"`
	Slow       int     `yaml:"slow" json:"slow"`
}

// ByName builds a strategy from its CLI name.
func ByName(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "open-once":
		return &OpenOnce{
			Instrument: p.Instrument,
			Units:      p.Units,
			StopPips:   p.StopPips,
			TakePips:   p.TakePips,
		}, nil

	case "momentum", "ema-cross":
		return NewMomentum(p), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, open-once, momentum)", name)
	}
}
