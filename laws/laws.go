// Package laws implements the protective trade laws that sit above strategy
// intent: Tourniquet (hard stop-distance ceiling), Winner (breakeven lock once
// a trade is sufficiently profitable) and Zombie (staleness tightening).
//
// The evaluators are pure: configuration plus a position snapshot in, a
// Decision out. They own no state; the lifecycle manager applies the results.
package laws

import (
	"fmt"

	"github.com/rustyeddy/riskgate/market"
)

// Config holds the law thresholds for one run. Immutable for the duration of
// a run; packs may differ.
type Config struct {
	// MaxStopPips is the Tourniquet ceiling. Engagements at or beyond this
	// stop distance are rejected; open positions are force-closed.
	MaxStopPips float64 `yaml:"max_stop_pips" json:"max_stop_pips"`

	// WinnerRR is the reward/risk ratio at which Winner moves the stop to
	// breakeven plus buffer.
	WinnerRR float64 `yaml:"winner_rr" json:"winner_rr"`

	// BreakevenBufferPips is how far past entry (in the trade's favor) the
	// Winner stop is placed.
	BreakevenBufferPips float64 `yaml:"breakeven_buffer_pips" json:"breakeven_buffer_pips"`

	// ZombieBars is the staleness threshold; Zombie fires at every whole
	// multiple of this bar count while no partial take-profit has filled.
	ZombieBars int `yaml:"zombie_bars" json:"zombie_bars"`

	// ZombieStepPips is the stop-tightening step per Zombie firing.
	ZombieStepPips float64 `yaml:"zombie_step_pips" json:"zombie_step_pips"`
}

func (c Config) Validate() error {
	if c.MaxStopPips <= 0 {
		return fmt.Errorf("laws.max_stop_pips must be positive")
	}
	if c.WinnerRR <= 0 {
		return fmt.Errorf("laws.winner_rr must be positive")
	}
	if c.BreakevenBufferPips < 0 {
		return fmt.Errorf("laws.breakeven_buffer_pips must not be negative")
	}
	if c.ZombieBars <= 0 {
		return fmt.Errorf("laws.zombie_bars must be positive")
	}
	if c.ZombieStepPips <= 0 {
		return fmt.Errorf("laws.zombie_step_pips must be positive")
	}
	return nil
}

// PositionView is the snapshot of an open position the evaluators need.
// Direction is +1 long, -1 short.
type PositionView struct {
	Direction    int
	Entry        float64
	Stop         float64
	OrigRiskPips float64
	BarsHeld     int
	PartialFills int
	Locked       bool
	PipLocation  int
}

// CheckEngagement applies Tourniquet to a proposed engagement's stop distance.
// A distance at or beyond the ceiling is rejected before any position exists.
func CheckEngagement(cfg Config, stopPips float64) Decision {
	if stopPips >= cfg.MaxStopPips {
		return Decision{
			Kind: Reject,
			Law:  Tourniquet,
			Reason: fmt.Sprintf("stop distance %.1f pips >= ceiling %.1f",
				stopPips, cfg.MaxStopPips),
		}
	}
	return Decision{Kind: NoOp}
}

// Evaluate runs the open-position laws in fixed precedence:
// Tourniquet > Winner > Zombie. Tourniquet can terminate the position, so the
// others are only consulted when it stays silent. price is the bar close used
// for the reward side of the Winner ratio.
func Evaluate(cfg Config, v PositionView, price float64) Decision {
	if d := tourniquetOpen(cfg, v); d.Kind != NoOp {
		return d
	}
	if d := winner(cfg, v, price); d.Kind != NoOp {
		return d
	}
	return zombie(cfg, v)
}

// tourniquetOpen force-closes a position whose stop distance was enlarged past
// the ceiling after it was opened. This overrides strategy intent
// unconditionally.
func tourniquetOpen(cfg Config, v PositionView) Decision {
	pip := market.PipSize(v.PipLocation)
	riskPips := float64(v.Direction) * (v.Entry - v.Stop) / pip
	if riskPips >= cfg.MaxStopPips {
		return Decision{
			Kind: ForceClose,
			Law:  Tourniquet,
			Reason: fmt.Sprintf("stop distance %.1f pips >= ceiling %.1f",
				riskPips, cfg.MaxStopPips),
		}
	}
	return Decision{Kind: NoOp}
}

// winner moves the stop to entry plus buffer (in the trade's favor) once the
// reward/risk ratio reaches the threshold. Setting the lock is the manager's
// job; once set, re-evaluation is a no-op.
func winner(cfg Config, v PositionView, price float64) Decision {
	if v.Locked || v.OrigRiskPips <= 0 {
		return Decision{Kind: NoOp}
	}
	pip := market.PipSize(v.PipLocation)
	profitPips := float64(v.Direction) * (price - v.Entry) / pip
	rr := profitPips / v.OrigRiskPips
	if rr < cfg.WinnerRR {
		return Decision{Kind: NoOp}
	}

	newStop := v.Entry + float64(v.Direction)*market.PipOffset(cfg.BreakevenBufferPips, v.PipLocation)
	// Never move a stop that is already at or beyond breakeven.
	if float64(v.Direction)*(newStop-v.Stop) <= 0 {
		return Decision{Kind: NoOp}
	}
	return Decision{
		Kind:    MoveStop,
		Law:     Winner,
		NewStop: newStop,
		Reason:  fmt.Sprintf("rr %.2f >= %.2f, stop to breakeven", rr, cfg.WinnerRR),
	}
}

// zombie tightens the stop by one step toward entry at every whole multiple of
// the staleness threshold, as long as no partial take-profit has filled. It
// never loosens the stop and never passes the Winner breakeven level.
func zombie(cfg Config, v PositionView) Decision {
	if v.PartialFills > 0 {
		return Decision{Kind: NoOp}
	}
	if v.BarsHeld < cfg.ZombieBars || v.BarsHeld%cfg.ZombieBars != 0 {
		return Decision{Kind: NoOp}
	}

	dir := float64(v.Direction)
	newStop := v.Stop + dir*market.PipOffset(cfg.ZombieStepPips, v.PipLocation)
	limit := v.Entry + dir*market.PipOffset(cfg.BreakevenBufferPips, v.PipLocation)
	if dir*(newStop-limit) > 0 {
		newStop = limit
	}
	if dir*(newStop-v.Stop) <= 0 {
		return Decision{Kind: NoOp}
	}
	return Decision{
		Kind:    MoveStop,
		Law:     Zombie,
		NewStop: newStop,
		Reason:  fmt.Sprintf("stale for %d bars, stop tightened %.1f pips", v.BarsHeld, cfg.ZombieStepPips),
	}
}
