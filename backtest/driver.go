package backtest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rustyeddy/riskgate/journal"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/sim"
	"github.com/rustyeddy/riskgate/strategies"
)

// RegimeClassifier labels each bar with a market regime for triage.
type RegimeClassifier interface {
	Update(b market.Bar) risk.Regime
}

// Options controls driver behavior.
type Options struct {
	// RunID groups journal records; a fresh UUID is generated when empty.
	RunID string
	// CloseEnd force-closes surviving positions on the last bar.
	CloseEnd bool
}

// Driver replays a bar feed through the lifecycle manager, consulting the
// strategy once per bar. The manager it drives is the same state machine the
// live router runs, which keeps replay results honest.
type Driver struct {
	Manager    *sim.Manager
	Account    *risk.Account
	Feed       BarFeed
	Strategy   strategies.Strategy
	Classifier RegimeClassifier // optional
	Journal    journal.Journal  // optional
	Options    Options
}

// Run executes the replay loop:
//  1. validate bar ordering
//  2. advance open positions one bar
//  3. let the strategy propose engagements
//  4. submit each through triage and the safety laws
//
// A feed-integrity violation aborts the run; silently skipping a disordered
// bar would corrupt every position's bar counters.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	if d.Manager == nil {
		return Result{}, fmt.Errorf("backtest: Manager is required")
	}
	if d.Account == nil {
		return Result{}, fmt.Errorf("backtest: Account is required")
	}
	if d.Feed == nil {
		return Result{}, fmt.Errorf("backtest: Feed is required")
	}
	if d.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	defer d.Feed.Close()

	runID := d.Options.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	jnl := d.Journal
	if jnl == nil {
		jnl = journal.Nop{}
	}

	res := Result{
		RunID:       runID,
		Strategy:    d.Strategy.Name(),
		StartEquity: d.Account.Snapshot().Equity,
	}

	var seq market.Sequencer
	var last market.Bar
	idx := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, ok, err := d.Feed.Next()
		if err != nil {
			return res, err
		}
		if !ok {
			break
		}
		if err := seq.Check(b); err != nil {
			return res, fmt.Errorf("backtest: bar %d: %w", idx, err)
		}

		if res.Start.IsZero() {
			res.Start = b.Time
		}
		res.End = b.Time
		last = b

		if d.Classifier != nil {
			d.Manager.SetRegime(d.Classifier.Update(b))
		}

		for _, ct := range d.Manager.OnBar(b) {
			res.tally(ct)
			if err := jnl.RecordTrade(journal.FromClosedTrade(runID, ct)); err != nil {
				return res, err
			}
		}

		sctx := &strategies.Context{Index: idx, Open: d.Manager.OpenCount()}
		for _, e := range d.Strategy.OnBar(sctx, b) {
			out := d.Manager.Submit(e, b.Time)
			if out.Rejection != nil {
				res.tallyRejection(*out.Rejection)
				if err := jnl.RecordRejection(journal.FromRejection(runID, *out.Rejection)); err != nil {
					return res, err
				}
			}
		}

		snap := d.Account.Snapshot()
		dd := snap.Drawdown()
		if dd > res.MaxDrawdown {
			res.MaxDrawdown = dd
		}
		if err := jnl.RecordEquity(journal.EquityPoint{
			RunID: runID, Time: b.Time, Equity: snap.Equity, Drawdown: dd,
		}); err != nil {
			return res, err
		}

		idx++
	}
	res.Bars = idx

	if d.Options.CloseEnd && idx > 0 {
		for _, ct := range d.Manager.CloseAll(last, sim.ReasonEndOfData) {
			res.tally(ct)
			if err := jnl.RecordTrade(journal.FromClosedTrade(runID, ct)); err != nil {
				return res, err
			}
		}
	}

	res.EndEquity = d.Account.Snapshot().Equity
	return res, nil
}
