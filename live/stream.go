// Package live routes real-time bars through the same lifecycle manager the
// backtest driver uses. Nothing here makes trade decisions; the package only
// swaps the bar source and the execution sink around the shared core.
package live

import "github.com/rustyeddy/riskgate/market"

// BarStream delivers bars for one instrument. The channel closes at end of
// stream; Err reports why, nil for a clean shutdown.
type BarStream interface {
	Bars() <-chan market.Bar
	Err() error
}

// ChannelStream is a BarStream fed by the caller. Adapters push bars from
// their transport and close with the terminal error.
type ChannelStream struct {
	ch  chan market.Bar
	err error
}

func NewChannelStream(buffer int) *ChannelStream {
	return &ChannelStream{ch: make(chan market.Bar, buffer)}
}

func (s *ChannelStream) Bars() <-chan market.Bar { return s.ch }

func (s *ChannelStream) Err() error { return s.err }

// Push queues one bar. Blocks when the buffer is full.
func (s *ChannelStream) Push(b market.Bar) { s.ch <- b }

// CloseWith ends the stream. Call exactly once, after the final Push.
func (s *ChannelStream) CloseWith(err error) {
	s.err = err
	close(s.ch)
}
