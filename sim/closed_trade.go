package sim

import (
	"time"

	"github.com/rustyeddy/riskgate/laws"
)

// CloseReason classifies why a position terminated.
type CloseReason string

const (
	ReasonStopLoss   CloseReason = "StopLoss"
	ReasonTakeProfit CloseReason = "TakeProfit"
	ReasonLaw        CloseReason = "SafetyLaw"
	ReasonEndOfData  CloseReason = "EndOfData"
	ReasonBroker     CloseReason = "BrokerReject"
)

// ClosedTrade is the immutable record emitted when a position reaches zero
// remaining size or is force-closed. PnL is net of fees and slippage across
// every fill of the position's life.
type ClosedTrade struct {
	ID         string
	Instrument string
	Side       Side
	Units      float64 // original total size
	Entry      float64
	Exit       float64 // price of the final fill
	OpenTime   time.Time
	CloseTime  time.Time
	BarsHeld   int
	PnL        float64
	Reason     CloseReason
	Law        laws.Law // set when a safety law forced the close
	Tag        string
}

// RejectKind classifies why an engagement never became a position.
type RejectKind string

const (
	RejectInvalid RejectKind = "invalid-engagement"
	RejectTriage  RejectKind = "triage-skip"
	RejectLaw     RejectKind = "law-reject"
)

// Rejection is the record of a refused engagement, kept for analysis. Not an
// error: a designed control-flow outcome.
type Rejection struct {
	Time   time.Time
	Kind   RejectKind
	Law    laws.Law // set for law rejections
	Reason string
	Tag    string
}
