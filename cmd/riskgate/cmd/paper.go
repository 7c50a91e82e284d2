package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/riskgate/backtest"
	"github.com/rustyeddy/riskgate/indicators"
	"github.com/rustyeddy/riskgate/live"
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
	"github.com/rustyeddy/riskgate/sim"
	"github.com/rustyeddy/riskgate/strategies"
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Paper-trade a bar CSV through the live router",
	Long: `Paper streams a bar CSV through the live router with a paper execution
sink. The decision core is the exact code the backtest runs; only the
feed and the sink differ. Ctrl-C drains open positions before exit.

Example:
  riskgate paper --bars data/eurusd_h1.csv --strategy momentum --interval 100ms`,
	RunE: runPaper,
}

var paperInterval time.Duration

func init() {
	rootCmd.AddCommand(paperCmd)

	paperCmd.Flags().StringVarP(&btBarsPath, "bars", "t", "", "path to bar CSV (required)")
	paperCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "momentum", "strategy name")
	paperCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "EUR_USD", "instrument")
	paperCmd.Flags().Float64VarP(&btUnits, "units", "u", 10_000, "proposed units per engagement")
	paperCmd.Flags().Float64Var(&btStopPips, "stop-pips", 10, "stop distance in pips")
	paperCmd.Flags().IntVar(&btFast, "fast", 12, "momentum: fast EMA period")
	paperCmd.Flags().IntVar(&btSlow, "slow", 48, "momentum: slow EMA period")
	paperCmd.Flags().DurationVar(&paperInterval, "interval", 0, "delay between bars (0 = full speed)")

	paperCmd.MarkFlagRequired("bars")
}

func runPaper(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	meta, ok := market.Instruments[btInstrument]
	if !ok {
		return fmt.Errorf("unknown instrument %q", btInstrument)
	}

	strat, err := strategies.ByName(btStrategy, strategies.Params{
		Instrument: btInstrument,
		Units:      btUnits,
		StopPips:   btStopPips,
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

	feed, err := backtest.NewCSVBarFeed(btBarsPath, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("open bars: %w", err)
	}

	stream := live.NewChannelStream(16)
	go func() {
		defer feed.Close()
		for {
			b, ok, err := feed.Next()
			if err != nil {
				stream.CloseWith(err)
				return
			}
			if !ok {
				stream.CloseWith(nil)
				return
			}
			stream.Push(b)
			if paperInterval > 0 {
				time.Sleep(paperInterval)
			}
		}
	}()

	logger := log.New(os.Stderr, "riskgate ", log.LstdFlags)
	router := &live.Router{
		Manager:    mgr,
		Account:    acct,
		Stream:     stream,
		Strategy:   strat,
		Sink:       &live.PaperSink{Logger: logger},
		Classifier: indicators.NewClassifier(cfg.Classifier),
		Journal:    jnl,
		Logger:     logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = router.Run(ctx)
	if err == context.Canceled {
		logger.Printf("interrupted, positions drained")
		err = nil
	}
	if err != nil {
		return err
	}

	snap := acct.Snapshot()
	fmt.Printf("\nPaper run complete. Equity: %.2f (drawdown %.2f%%)\n",
		snap.Equity, snap.Drawdown()*100)
	return nil
}
