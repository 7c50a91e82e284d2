package market

import (
	"fmt"
	"time"
)

// Sequencer enforces feed ordering: every bar must be strictly later than the
// previous one. Duplicate or out-of-order timestamps are never skipped or
// reordered, since that would corrupt reproducibility; they fail the run.
type Sequencer struct {
	prev time.Time
}

// Check validates the bar itself, then its position in the sequence.
func (s *Sequencer) Check(b Bar) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if !s.prev.IsZero() {
		if b.Time.Equal(s.prev) {
			return fmt.Errorf("duplicate bar timestamp %s", b.Time.Format(time.RFC3339))
		}
		if b.Time.Before(s.prev) {
			return fmt.Errorf("out-of-order bar: %s after %s",
				b.Time.Format(time.RFC3339), s.prev.Format(time.RFC3339))
		}
	}
	s.prev = b.Time
	return nil
}

// Reset clears the sequencer so it can be reused for a new feed.
func (s *Sequencer) Reset() {
	s.prev = time.Time{}
}
