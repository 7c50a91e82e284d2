package journal

import (
	"time"

	"github.com/rustyeddy/riskgate/sim"
)

// TradeRecord is a closed trade as persisted, flattened for storage.
type TradeRecord struct {
	RunID      string
	TradeID    string
	Instrument string
	Side       string
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	BarsHeld   int
	RealizedPL float64
	Reason     string
	Law        string
	Tag        string
}

// FromClosedTrade flattens a lifecycle result into a storable record.
func FromClosedTrade(runID string, ct sim.ClosedTrade) TradeRecord {
	return TradeRecord{
		RunID:      runID,
		TradeID:    ct.ID,
		Instrument: ct.Instrument,
		Side:       ct.Side.String(),
		Units:      ct.Units,
		EntryPrice: ct.Entry,
		ExitPrice:  ct.Exit,
		OpenTime:   ct.OpenTime,
		CloseTime:  ct.CloseTime,
		BarsHeld:   ct.BarsHeld,
		RealizedPL: ct.PnL,
		Reason:     string(ct.Reason),
		Law:        string(ct.Law),
		Tag:        ct.Tag,
	}
}

// RejectionRecord is a refused engagement as persisted.
type RejectionRecord struct {
	RunID  string
	Time   time.Time
	Kind   string
	Law    string
	Reason string
	Tag    string
}

func FromRejection(runID string, r sim.Rejection) RejectionRecord {
	return RejectionRecord{
		RunID:  runID,
		Time:   r.Time,
		Kind:   string(r.Kind),
		Law:    string(r.Law),
		Reason: r.Reason,
		Tag:    r.Tag,
	}
}

// EquityPoint is one sample of the equity curve, taken at bar close.
type EquityPoint struct {
	RunID    string
	Time     time.Time
	Equity   float64
	Drawdown float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordRejection(RejectionRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}

// Nop discards everything. Used when persistence is switched off.
type Nop struct{}

func (Nop) RecordTrade(TradeRecord) error         { return nil }
func (Nop) RecordRejection(RejectionRecord) error { return nil }
func (Nop) RecordEquity(EquityPoint) error        { return nil }
func (Nop) Close() error                          { return nil }
