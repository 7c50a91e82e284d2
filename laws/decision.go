package laws

// Law names the rule that produced a decision. The names travel into the
// ledger so rejections and overrides can be attributed after the fact.
type Law string

const (
	Tourniquet Law = "Tourniquet"
	Winner     Law = "Winner"
	Zombie     Law = "Zombie"
)

// Kind is the action a law demands.
type Kind int

const (
	// NoOp: the law has nothing to say on this bar.
	NoOp Kind = iota
	// Reject: the engagement must not become a position.
	Reject
	// ForceClose: the open position must be closed at market immediately.
	ForceClose
	// MoveStop: the stop-loss moves to NewStop (always in the trade's favor).
	MoveStop
)

func (k Kind) String() string {
	switch k {
	case NoOp:
		return "no-op"
	case Reject:
		return "reject"
	case ForceClose:
		return "force-close"
	case MoveStop:
		return "move-stop"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating one or more laws against a snapshot.
type Decision struct {
	Kind    Kind
	Law     Law
	NewStop float64 // only meaningful for MoveStop
	Reason  string
}
