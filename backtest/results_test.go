package backtest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/riskgate/sim"
)

func TestResultTally(t *testing.T) {
	t.Parallel()
	var r Result
	r.tally(sim.ClosedTrade{PnL: 5, Reason: sim.ReasonTakeProfit})
	r.tally(sim.ClosedTrade{PnL: -2, Reason: sim.ReasonStopLoss})
	r.tally(sim.ClosedTrade{PnL: -1, Reason: sim.ReasonLaw})
	r.tally(sim.ClosedTrade{PnL: 0, Reason: sim.ReasonEndOfData})

	assert.Equal(t, 4, r.Trades)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 2, r.Losses)
	assert.Equal(t, 1, r.LawCloses)
	assert.InDelta(t, 5, r.GrossProfit, 1e-9)
	assert.InDelta(t, 3, r.GrossLoss, 1e-9)
	assert.InDelta(t, 0.25, r.WinRate(), 1e-9)
	assert.InDelta(t, 5.0/3.0, r.ProfitFactor(), 1e-9)
}

func TestResultEdgeRatios(t *testing.T) {
	t.Parallel()
	var r Result
	assert.Zero(t, r.WinRate())
	assert.Zero(t, r.ProfitFactor())

	r.GrossProfit = 7
	assert.InDelta(t, 7, r.ProfitFactor(), 1e-9, "no losses caps at gross profit")
}

func TestPrintResult(t *testing.T) {
	t.Parallel()
	r := Result{
		RunID:       "run-1",
		Strategy:    "momentum",
		Start:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC),
		Bars:        480,
		StartEquity: 10000,
		EndEquity:   10123.45,
		Trades:      7,
		Wins:        4,
		Losses:      3,
	}

	var buf bytes.Buffer
	PrintResult(&buf, r)

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "momentum")
	assert.Contains(t, out, "123.45")
}
