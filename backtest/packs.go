package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/riskgate/laws"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/sim"
	"github.com/rustyeddy/riskgate/strategies"
)

// PackSpec names one dataset/strategy pairing to replay. Exactly one of
// CSVPath and Synthetic supplies the bars.
type PackSpec struct {
	Name       string                  `yaml:"name" json:"name"`
	Instrument string                  `yaml:"instrument" json:"instrument"`
	CSVPath    string                  `yaml:"csv_path" json:"csv_path"`
	Synthetic  *market.SyntheticConfig `yaml:"synthetic" json:"synthetic"`
	Strategy   string                  `yaml:"strategy" json:"strategy"`
	Params     strategies.Params       `yaml:"params" json:"params"`
	From       time.Time               `yaml:"from" json:"from"`
	To         time.Time               `yaml:"to" json:"to"`
}

func (p PackSpec) feed() (BarFeed, error) {
	switch {
	case p.CSVPath != "" && p.Synthetic != nil:
		return nil, fmt.Errorf("pack %q: csv_path and synthetic are mutually exclusive", p.Name)
	case p.CSVPath != "":
		return NewCSVBarFeed(p.CSVPath, p.From, p.To)
	case p.Synthetic != nil:
		return NewSliceFeed(market.Synthetic(*p.Synthetic)), nil
	default:
		return nil, fmt.Errorf("pack %q: no data source", p.Name)
	}
}

// PackResult pairs a pack with its run outcome. A failed pack carries its
// error here instead of aborting sibling packs.
type PackResult struct {
	Pack   string
	Result Result
	Err    error
}

// PackRunner executes many independent replays concurrently. Every pack gets
// its own account and manager, so packs never contend on shared state and
// results are identical to running them one at a time.
type PackRunner struct {
	Balance    float64
	Laws       laws.Config
	Brain      risk.Brain
	Costs      sim.CostModel
	Classifier func() RegimeClassifier // optional, fresh per pack
	Workers    int
	CloseEnd   bool
}

func (pr *PackRunner) Run(ctx context.Context, packs []PackSpec) ([]PackResult, error) {
	if len(packs) == 0 {
		return nil, nil
	}
	workers := pr.Workers
	if workers <= 0 {
		workers = 4
	}

	results := make([]PackResult, len(packs))

	// Per-pack errors live in PackResult.Err so one bad pack never stops
	// its siblings. The group context is for cancellation fan-out only;
	// the caller's context decides whether the batch itself was cut short.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, p := range packs {
		i, p := i, p
		g.Go(func() error {
			results[i] = pr.runOne(gctx, p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (pr *PackRunner) runOne(ctx context.Context, p PackSpec) PackResult {
	out := PackResult{Pack: p.Name}

	meta, ok := market.Instruments[p.Instrument]
	if !ok {
		out.Err = fmt.Errorf("pack %q: unknown instrument %q", p.Name, p.Instrument)
		return out
	}

	feed, err := p.feed()
	if err != nil {
		out.Err = err
		return out
	}

	strat, err := strategies.ByName(p.Strategy, p.Params)
	if err != nil {
		out.Err = fmt.Errorf("pack %q: %w", p.Name, err)
		return out
	}

	acct := risk.NewAccount(pr.Balance)
	mgr, err := sim.NewManager(sim.Config{
		Instrument: meta,
		Laws:       pr.Laws,
		Costs:      pr.Costs,
		Brain:      pr.Brain,
		Account:    acct,
	})
	if err != nil {
		out.Err = fmt.Errorf("pack %q: %w", p.Name, err)
		feed.Close()
		return out
	}

	d := &Driver{
		Manager:  mgr,
		Account:  acct,
		Feed:     feed,
		Strategy: strat,
		Options: Options{
			RunID:    p.Name + "-" + uuid.NewString(),
			CloseEnd: pr.CloseEnd,
		},
	}
	if pr.Classifier != nil {
		d.Classifier = pr.Classifier()
	}

	out.Result, out.Err = d.Run(ctx)
	return out
}
