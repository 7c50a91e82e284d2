package live

import (
	"log"

	"github.com/rustyeddy/riskgate/sim"
)

// ExecutionSink is the broker-facing side of the router. Opened submits a
// freshly accepted position; a returned error is a broker rejection and the
// router force-closes the position in response. Closed reports exits so the
// adapter can flatten the broker-side order.
type ExecutionSink interface {
	Opened(p *sim.Position) error
	Closed(ct sim.ClosedTrade) error
}

// PaperSink accepts everything and logs it. The paper-trading default.
type PaperSink struct {
	Logger *log.Logger

	Opens  int
	Closes int
}

func (s *PaperSink) Opened(p *sim.Position) error {
	s.Opens++
	if s.Logger != nil {
		s.Logger.Printf("paper open %s %s %s %.1f @ %.5f stop %.5f",
			p.ID, p.Instrument, p.Side, p.Units, p.Entry, p.Stop)
	}
	return nil
}

func (s *PaperSink) Closed(ct sim.ClosedTrade) error {
	s.Closes++
	if s.Logger != nil {
		s.Logger.Printf("paper close %s %s %s @ %.5f pnl %.2f",
			ct.ID, ct.Instrument, ct.Reason, ct.Exit, ct.PnL)
	}
	return nil
}
