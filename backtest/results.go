package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/rustyeddy/riskgate/sim"
)

// Result is the summary of one replay run.
type Result struct {
	RunID    string
	Strategy string
	Start    time.Time
	End      time.Time
	Bars     int

	StartEquity float64
	EndEquity   float64
	MaxDrawdown float64

	Trades      int
	Wins        int
	Losses      int
	GrossProfit float64
	GrossLoss   float64
	LawCloses   int

	RejectedInvalid int
	RejectedTriage  int
	RejectedLaw     int
}

func (r *Result) tally(ct sim.ClosedTrade) {
	r.Trades++
	switch {
	case ct.PnL > 0:
		r.Wins++
		r.GrossProfit += ct.PnL
	case ct.PnL < 0:
		r.Losses++
		r.GrossLoss += -ct.PnL
	}
	if ct.Reason == sim.ReasonLaw {
		r.LawCloses++
	}
}

func (r *Result) tallyRejection(rej sim.Rejection) {
	switch rej.Kind {
	case sim.RejectInvalid:
		r.RejectedInvalid++
	case sim.RejectTriage:
		r.RejectedTriage++
	case sim.RejectLaw:
		r.RejectedLaw++
	}
}

func (r Result) NetPnL() float64 {
	return r.EndEquity - r.StartEquity
}

func (r Result) WinRate() float64 {
	if r.Trades == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trades)
}

// ProfitFactor is gross profit over gross loss. Zero loss with any profit
// reports +Inf is unhelpful in tables, so it caps at gross profit.
func (r Result) ProfitFactor() float64 {
	if r.GrossLoss == 0 {
		return r.GrossProfit
	}
	return r.GrossProfit / r.GrossLoss
}

// PrintResult renders a run summary table.
func PrintResult(w io.Writer, r Result) {
	t := tablewriter.NewWriter(w)
	t.Header("Metric", "Value")
	t.Append("Run", r.RunID)
	t.Append("Strategy", r.Strategy)
	t.Append("Window", fmt.Sprintf("%s .. %s", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339)))
	t.Append("Bars", fmt.Sprintf("%d", r.Bars))
	t.Append("Equity", fmt.Sprintf("%.2f -> %.2f", r.StartEquity, r.EndEquity))
	t.Append("Net PnL", fmt.Sprintf("%.2f", r.NetPnL()))
	t.Append("Max drawdown", fmt.Sprintf("%.2f%%", r.MaxDrawdown*100))
	t.Append("Trades", fmt.Sprintf("%d (%d W / %d L)", r.Trades, r.Wins, r.Losses))
	t.Append("Win rate", fmt.Sprintf("%.1f%%", r.WinRate()*100))
	t.Append("Profit factor", fmt.Sprintf("%.2f", r.ProfitFactor()))
	t.Append("Law closes", fmt.Sprintf("%d", r.LawCloses))
	t.Append("Rejections", fmt.Sprintf("%d triage / %d law / %d invalid",
		r.RejectedTriage, r.RejectedLaw, r.RejectedInvalid))
	t.Render()
}
