package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/sim"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func barAt(i int, close float64) market.Bar {
	return market.Bar{
		Time: t0.Add(time.Duration(i) * time.Minute),
		Open: close, High: close + 0.0002, Low: close - 0.0002, Close: close,
	}
}

func TestNoopProposesNothing(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Noop{}.OnBar(&Context{}, barAt(0, 1.1)))
}

func TestOpenOnceFiresExactlyOnce(t *testing.T) {
	t.Parallel()
	s := &OpenOnce{Instrument: "EUR_USD", Units: 1000, StopPips: 10}

	got := s.OnBar(&Context{}, barAt(0, 1.1000))
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, sim.Long, e.Side)
	assert.InDelta(t, 1.1000, e.Entry, 1e-9)
	assert.InDelta(t, 10, e.StopPips, 1e-9)
	assert.InDelta(t, 20, e.Takes[0].Pips, 1e-9, "target defaults to twice the stop")
	assert.NoError(t, e.Validate())

	assert.Nil(t, s.OnBar(&Context{Index: 1}, barAt(1, 1.1005)))

	s.Reset()
	assert.Len(t, s.OnBar(&Context{}, barAt(2, 1.1010)), 1)
}

func TestMomentumEntersOnCross(t *testing.T) {
	t.Parallel()
	s := NewMomentum(Params{Instrument: "EUR_USD", Units: 1000, StopPips: 10, Fast: 2, Slow: 4})

	var got []sim.Engagement
	i := 0
	feed := func(close float64) {
		got = s.OnBar(&Context{Index: i}, barAt(i, close))
		i++
	}

	// Decline first so the fast EMA sits below the slow one.
	for _, c := range []float64{1.1000, 1.0990, 1.0980, 1.0970, 1.0960} {
		feed(c)
		assert.Nil(t, got)
	}

	// Sharp reversal crosses fast above slow.
	var entry []sim.Engagement
	for _, c := range []float64{1.1000, 1.1020, 1.1040} {
		feed(c)
		if len(got) > 0 {
			entry = got
			break
		}
	}
	require.Len(t, entry, 1)
	e := entry[0]
	assert.Equal(t, sim.Long, e.Side)
	assert.NoError(t, e.Validate())
	require.Len(t, e.Takes, 2)
	assert.InDelta(t, 10, e.Takes[0].Pips, 1e-9)
	assert.InDelta(t, 20, e.Takes[1].Pips, 1e-9)
}

func TestMomentumRespectsOpenPosition(t *testing.T) {
	t.Parallel()
	s := NewMomentum(Params{Instrument: "EUR_USD", Units: 1000, StopPips: 10, Fast: 2, Slow: 4})

	for i, c := range []float64{1.1000, 1.0990, 1.0980, 1.0970, 1.0960} {
		s.OnBar(&Context{Index: i}, barAt(i, c))
	}
	for i, c := range []float64{1.1000, 1.1020, 1.1040} {
		got := s.OnBar(&Context{Index: 5 + i, Open: 1}, barAt(5+i, c))
		assert.Nil(t, got, "no stacking while a position is live")
	}
}

func TestByName(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"noop", "open-once", "momentum", "ema-cross", " Momentum "} {
		s, err := ByName(name, Params{Instrument: "EUR_USD", Units: 100})
		require.NoError(t, err, name)
		require.NotNil(t, s)
	}
	_, err := ByName("nope", Params{})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	Register("custom-noop", Noop{})
	assert.NotNil(t, Get("custom-noop"))
	assert.Nil(t, Get("missing"))
}
