package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/riskgate/backtest"
	"github.com/rustyeddy/riskgate/indicators"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Run the configured replay packs concurrently",
	Long: `Pack runs every pack listed in the config file, each on its own account
and manager, up to --workers at a time. Results are identical to running
the packs one by one.

Example:
  riskgate pack --config research.yaml --workers 8`,
	RunE: runPack,
}

var packWorkers int

func init() {
	rootCmd.AddCommand(packCmd)
	packCmd.Flags().IntVarP(&packWorkers, "workers", "w", 4, "concurrent pack runs")
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Packs) == 0 {
		return fmt.Errorf("no packs in config")
	}

	brain, err := cfg.BuildBrain()
	if err != nil {
		return err
	}

	pr := &backtest.PackRunner{
		Balance: cfg.Account.Balance,
		Laws:    cfg.Laws,
		Brain:   brain,
		Costs:   cfg.Costs,
		Classifier: func() backtest.RegimeClassifier {
			return indicators.NewClassifier(cfg.Classifier)
		},
		Workers:  packWorkers,
		CloseEnd: true,
	}

	results, err := pr.Run(context.Background(), cfg.Packs)
	if err != nil {
		return err
	}

	t := tablewriter.NewWriter(os.Stdout)
	t.Header("Pack", "Bars", "Trades", "W/L", "Net PnL", "Max DD", "PF", "Error")
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			t.Append(res.Pack, "-", "-", "-", "-", "-", "-", res.Err.Error())
			continue
		}
		r := res.Result
		t.Append(
			res.Pack,
			fmt.Sprintf("%d", r.Bars),
			fmt.Sprintf("%d", r.Trades),
			fmt.Sprintf("%d/%d", r.Wins, r.Losses),
			fmt.Sprintf("%.2f", r.NetPnL()),
			fmt.Sprintf("%.2f%%", r.MaxDrawdown*100),
			fmt.Sprintf("%.2f", r.ProfitFactor()),
			"",
		)
	}
	t.Render()

	if failed > 0 {
		return fmt.Errorf("%d of %d packs failed", failed, len(results))
	}
	return nil
}
