package backtest

import "github.com/rustyeddy/riskgate/journal"

// fakeJournal captures records in memory for assertions.
type fakeJournal struct {
	trades     []journal.TradeRecord
	rejections []journal.RejectionRecord
	equity     []journal.EquityPoint
	closed     bool
}

func (j *fakeJournal) RecordTrade(t journal.TradeRecord) error {
	j.trades = append(j.trades, t)
	return nil
}

func (j *fakeJournal) RecordRejection(r journal.RejectionRecord) error {
	j.rejections = append(j.rejections, r)
	return nil
}

func (j *fakeJournal) RecordEquity(e journal.EquityPoint) error {
	j.equity = append(j.equity, e)
	return nil
}

func (j *fakeJournal) Close() error {
	j.closed = true
	return nil
}
