package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/riskgate/backtest"
	"github.com/rustyeddy/riskgate/indicators"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/sim"
	"github.com/rustyeddy/riskgate/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a bar CSV through the lifecycle engine",
	Long: `Backtest replays historical bars through the position lifecycle engine,
with the risk brain and safety laws gating every proposed trade.

Supported strategies:
  - noop: proposes nothing (baseline replay)
  - open-once: a single long at the first bar
  - momentum: EMA crossover with split take-profit targets

Example:
  riskgate backtest --bars data/eurusd_h1.csv --strategy momentum --fast 12 --slow 48`,
	RunE: runBacktest,
}

var (
	btBarsPath   string
	btBalance    float64
	btCloseEnd   bool
	btStrategy   string
	btInstrument string
	btUnits      float64
	btStopPips   float64
	btTakePips   float64
	btFast       int
	btSlow       int
	btFrom       string
	btTo         string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "t", "", "path to bar CSV (time,open,high,low,close[,volume]) (required)")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "starting balance (overrides config)")
	backtestCmd.Flags().BoolVar(&btCloseEnd, "close-end", true, "close all open positions at end of data")

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "noop", "strategy name (noop, open-once, momentum)")
	backtestCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "EUR_USD", "instrument")
	backtestCmd.Flags().Float64VarP(&btUnits, "units", "u", 10_000, "proposed units per engagement")
	backtestCmd.Flags().Float64Var(&btStopPips, "stop-pips", 10, "stop distance in pips")
	backtestCmd.Flags().Float64Var(&btTakePips, "take-pips", 0, "take-profit distance in pips (0 = strategy default)")
	backtestCmd.Flags().IntVar(&btFast, "fast", 12, "momentum: fast EMA period")
	backtestCmd.Flags().IntVar(&btSlow, "slow", 48, "momentum: slow EMA period")

	backtestCmd.Flags().StringVar(&btFrom, "from", "", "only bars at or after this RFC3339 time")
	backtestCmd.Flags().StringVar(&btTo, "to", "", "only bars before this RFC3339 time")

	backtestCmd.MarkFlagRequired("bars")
}

func parseWindow(from, to string) (time.Time, time.Time, error) {
	var f, t time.Time
	var err error
	if from != "" {
		if f, err = time.Parse(time.RFC3339, from); err != nil {
			return f, t, fmt.Errorf("bad --from: %w", err)
		}
	}
	if to != "" {
		if t, err = time.Parse(time.RFC3339, to); err != nil {
			return f, t, fmt.Errorf("bad --to: %w", err)
		}
	}
	return f, t, nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if btBalance > 0 {
		cfg.Account.Balance = btBalance
	}

	meta, ok := market.Instruments[btInstrument]
	if !ok {
		return fmt.Errorf("unknown instrument %q", btInstrument)
	}

	from, to, err := parseWindow(btFrom, btTo)
	if err != nil {
		return err
	}
	feed, err := backtest.NewCSVBarFeed(btBarsPath, from, to)
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	strat, err := strategies.ByName(btStrategy, strategies.Params{
		Instrument: btInstrument,
		Units:      btUnits,
		StopPips:   btStopPips,
		TakePips:   btTakePips,
		Fast:       btFast,
		Slow:       btSlow,
	})
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	brain, err := cfg.BuildBrain()
	if err != nil {
		return err
	}
	acct := risk.NewAccount(cfg.Account.Balance)
	mgr, err := sim.NewManager(sim.Config{
		Instrument: meta,
		Laws:       cfg.Laws,
		Costs:      cfg.Costs,
		Brain:      brain,
		Account:    acct,
	})
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	fmt.Printf("Running backtest with strategy: %s\n", strat.Name())
	fmt.Printf("  Bars: %s\n\n", btBarsPath)

	d := &backtest.Driver{
		Manager:    mgr,
		Account:    acct,
		Feed:       feed,
		Strategy:   strat,
		Classifier: indicators.NewClassifier(cfg.Classifier),
		Journal:    jnl,
		Options:    backtest.Options{CloseEnd: btCloseEnd},
	}
	res, err := d.Run(context.Background())
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)
	return nil
}
