package live

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

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

// Router drives one instrument's manager from a live bar stream. The manager,
// brain and laws are exactly the ones the backtest driver runs; the router
// only swaps the feed and adds the execution sink.
type Router struct {
	Manager    *sim.Manager
	Account    *risk.Account
	Stream     BarStream
	Strategy   strategies.Strategy
	Sink       ExecutionSink
	Classifier RegimeClassifier // optional
	Journal    journal.Journal  // optional
	RunID      string
	Logger     *log.Logger
}

// Run consumes the stream until it closes or ctx is cancelled. On either
// exit, open positions are force-closed at the last seen bar and reported to
// the sink before Run returns, so no position is left dangling.
func (r *Router) Run(ctx context.Context) error {
	if r.Manager == nil {
		return fmt.Errorf("live: Manager is required")
	}
	if r.Stream == nil {
		return fmt.Errorf("live: Stream is required")
	}
	if r.Strategy == nil {
		return fmt.Errorf("live: Strategy is required")
	}
	if r.Sink == nil {
		return fmt.Errorf("live: Sink is required")
	}

	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	jnl := r.Journal
	if jnl == nil {
		jnl = journal.Nop{}
	}

	var seq market.Sequencer
	var last market.Bar
	seen := false
	idx := 0

	drain := func(reason sim.CloseReason) {
		if !seen {
			return
		}
		for _, ct := range r.Manager.CloseAll(last, reason) {
			r.report(jnl, runID, ct)
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain(sim.ReasonEndOfData)
			return ctx.Err()

		case b, ok := <-r.Stream.Bars():
			if !ok {
				drain(sim.ReasonEndOfData)
				return r.Stream.Err()
			}
			if err := seq.Check(b); err != nil {
				drain(sim.ReasonEndOfData)
				return fmt.Errorf("live: bar %d: %w", idx, err)
			}
			last, seen = b, true

			if r.Classifier != nil {
				r.Manager.SetRegime(r.Classifier.Update(b))
			}

			for _, ct := range r.Manager.OnBar(b) {
				r.report(jnl, runID, ct)
			}

			sctx := &strategies.Context{Index: idx, Open: r.Manager.OpenCount()}
			for _, e := range r.Strategy.OnBar(sctx, b) {
				out := r.Manager.Submit(e, b.Time)
				if out.Rejection != nil {
					if err := jnl.RecordRejection(journal.FromRejection(runID, *out.Rejection)); err != nil && r.Logger != nil {
						r.Logger.Printf("journal rejection: %v", err)
					}
					continue
				}
				if err := r.Sink.Opened(out.Position); err != nil {
					// Broker refused what we accepted locally. Unwind
					// immediately rather than run an unbacked position.
					if r.Logger != nil {
						r.Logger.Printf("sink rejected %s: %v", out.Position.ID, err)
					}
					ct, cerr := r.Manager.ForceClose(out.Position.ID, b, sim.ReasonBroker)
					if cerr == nil {
						r.report(jnl, runID, ct)
					}
				}
			}

			if r.Account != nil {
				snap := r.Account.Snapshot()
				err := jnl.RecordEquity(journal.EquityPoint{
					RunID: runID, Time: b.Time, Equity: snap.Equity, Drawdown: snap.Drawdown(),
				})
				if err != nil && r.Logger != nil {
					r.Logger.Printf("journal equity: %v", err)
				}
			}
			idx++
		}
	}
}

func (r *Router) report(jnl journal.Journal, runID string, ct sim.ClosedTrade) {
	if err := r.Sink.Closed(ct); err != nil && r.Logger != nil {
		r.Logger.Printf("sink close %s: %v", ct.ID, err)
	}
	if err := jnl.RecordTrade(journal.FromClosedTrade(runID, ct)); err != nil && r.Logger != nil {
		r.Logger.Printf("journal trade %s: %v", ct.ID, err)
	}
}

// RunGroup runs several routers concurrently, typically one per instrument
// sharing one account. The shared Account serializes equity updates; triage
// reads a committed snapshot and never a torn one. The first router error
// cancels the rest.
func RunGroup(ctx context.Context, routers ...*Router) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range routers {
		r := r
		g.Go(func() error { return r.Run(ctx) })
	}
	return g.Wait()
}
