package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/riskgate/config"
	"github.com/rustyeddy/riskgate/journal"
)

var rootCmd = &cobra.Command{
	Use:   "riskgate",
	Short: "A bar-by-bar trade simulator with safety laws and drawdown-aware sizing",
	Long: `Riskgate replays price bars through a position lifecycle engine that
layers hard safety laws (stop ceilings, breakeven locks, staleness
tightening) on top of a drawdown-aware risk brain.

It provides tools for:
  - Backtesting strategies against bar CSV datasets
  - Running batches of replay packs concurrently
  - Paper-trading the identical decision core against a live bar stream
  - Journaling trades, rejections and equity curves to CSV or SQLite`,
}

var cfgPath string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
}

// loadConfig resolves the effective configuration: the --config file if set,
// the RISKGATE_CONFIG env var next, built-in defaults otherwise.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = os.Getenv("RISKGATE_CONFIG")
	}
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.LoadFromFile(path)
}

// openJournal builds the configured ledger sink.
func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return journal.Nop{}, nil
	case "csv":
		trades, rejs, equity := jc.TradesFile, jc.RejectionsFile, jc.EquityFile
		if trades == "" {
			trades = "trades.csv"
		}
		if rejs == "" {
			rejs = "rejections.csv"
		}
		if equity == "" {
			equity = "equity.csv"
		}
		return journal.NewCSV(trades, rejs, equity)
	case "sqlite":
		path := jc.DBPath
		if path == "" {
			path = "riskgate.sqlite"
		}
		return journal.NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
