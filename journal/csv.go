package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal appends trades, rejections and equity samples to three flat
// files, flushed on every record so a crashed run still leaves usable data.
type CSVJournal struct {
	trades     *csv.Writer
	rejs       *csv.Writer
	equity     *csv.Writer
	tf, rf, ef *os.File
}

func NewCSV(tradesPath, rejectionsPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	rf, err := os.Create(rejectionsPath)
	if err != nil {
		tf.Close()
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		rf.Close()
		return nil, err
	}

	j := &CSVJournal{
		trades: csv.NewWriter(tf),
		rejs:   csv.NewWriter(rf),
		equity: csv.NewWriter(ef),
		tf:     tf, rf: rf, ef: ef,
	}

	j.trades.Write([]string{"run_id", "trade_id", "instrument", "side", "units",
		"entry_price", "exit_price", "open_time", "close_time", "bars_held",
		"realized_pl", "reason", "law", "tag"})
	j.rejs.Write([]string{"run_id", "time", "kind", "law", "reason", "tag"})
	j.equity.Write([]string{"run_id", "time", "equity", "drawdown"})

	for _, w := range []*csv.Writer{j.trades, j.rejs, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	j.trades.Write([]string{
		t.RunID,
		t.TradeID,
		t.Instrument,
		t.Side,
		f(t.Units),
		f(t.EntryPrice),
		f(t.ExitPrice),
		t.OpenTime.Format(time.RFC3339),
		t.CloseTime.Format(time.RFC3339),
		strconv.Itoa(t.BarsHeld),
		f(t.RealizedPL),
		t.Reason,
		t.Law,
		t.Tag,
	})
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordRejection(r RejectionRecord) error {
	j.rejs.Write([]string{
		r.RunID,
		r.Time.Format(time.RFC3339),
		r.Kind,
		r.Law,
		r.Reason,
		r.Tag,
	})
	j.rejs.Flush()
	return j.rejs.Error()
}

func (j *CSVJournal) RecordEquity(e EquityPoint) error {
	j.equity.Write([]string{
		e.RunID,
		e.Time.Format(time.RFC3339),
		f(e.Equity),
		f(e.Drawdown),
	})
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.trades, j.rejs, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}
	for _, file := range []*os.File{j.tf, j.rf, j.ef} {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
