package strategies

import (
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/sim"
)

// Noop proposes nothing. Useful for replaying a dataset through the
// lifecycle machinery without opening trades.
type Noop struct{}

func (Noop) Name() string { return "noop" }
func (Noop) Reset()       {}

func (Noop) OnBar(ctx *Context, b market.Bar) []sim.Engagement {
	_ = ctx
	_ = b
	return nil
}
