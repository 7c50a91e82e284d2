package risk

import "sync"

// Account tracks running equity and the high-water mark for one run (or one
// live account). It is the single source of truth for drawdown.
//
// All mutation goes through Apply, guarded by a mutex: in live mode several
// instrument routers share one Account, and the single-writer discipline
// guarantees triage never observes a partially-updated equity value.
// Backtests are single-threaded, so the lock is uncontended there.
type Account struct {
	mu     sync.Mutex
	equity float64
	peak   float64
}

// Snapshot is a consistent read of the account at some commit point. Triage
// reads may be slightly stale relative to concurrent closes; they are never
// torn.
type Snapshot struct {
	Equity float64
	Peak   float64
}

func NewAccount(balance float64) *Account {
	return &Account{equity: balance, peak: balance}
}

// Apply commits a realized P/L to equity and advances the high-water mark.
// The lifecycle manager is the only caller; the brain never mutates.
func (a *Account) Apply(realizedPL float64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.equity += realizedPL
	if a.equity > a.peak {
		a.peak = a.equity
	}
	return Snapshot{Equity: a.equity, Peak: a.peak}
}

func (a *Account) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{Equity: a.equity, Peak: a.peak}
}

// Drawdown returns (peak - equity) / peak, clamped to [0, 1). A zero or
// uninitialized peak means zero drawdown, so the first triage of a run can
// never fail on division.
func (s Snapshot) Drawdown() float64 {
	if s.Peak <= 0 {
		return 0
	}
	dd := (s.Peak - s.Equity) / s.Peak
	if dd < 0 {
		return 0
	}
	if dd >= 1 {
		// Equity at or below zero; report just under 1 to keep the
		// documented range.
		return 0.999999
	}
	return dd
}
