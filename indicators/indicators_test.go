package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
)

func TestEMASeedsOnFirstSample(t *testing.T) {
	t.Parallel()
	e := NewEMA(3)
	e.Update(10)
	assert.InDelta(t, 10, e.Value(), 1e-9)
	assert.False(t, e.Ready())

	// alpha = 2/(3+1) = 0.5
	e.Update(20)
	assert.InDelta(t, 15, e.Value(), 1e-9)
	e.Update(30)
	assert.True(t, e.Ready())
	assert.InDelta(t, 22.5, e.Value(), 1e-9)
}

func TestATRUsesPreviousCloseGaps(t *testing.T) {
	t.Parallel()
	a := NewATR(2)
	a.Update(market.Bar{High: 1.1010, Low: 1.1000, Close: 1.1005})
	assert.InDelta(t, 0.0010, a.Value(), 1e-9)

	// Gap open: true range stretches back to the previous close.
	a.Update(market.Bar{High: 1.1030, Low: 1.1025, Close: 1.1028})
	tr := 1.1030 - 1.1005
	want := (0.0010*1 + tr) / 2
	assert.InDelta(t, want, a.Value(), 1e-9)
	assert.True(t, a.Ready())
}

func TestClassifierWarmupIsRanging(t *testing.T) {
	t.Parallel()
	c := NewClassifier(DefaultClassifierConfig())
	got := c.Update(market.Bar{High: 1.1010, Low: 1.1000, Close: 1.1005})
	assert.Equal(t, risk.RegimeRanging, got)
}

func TestClassifierLabels(t *testing.T) {
	t.Parallel()
	cfg := ClassifierConfig{
		Fast: 2, Slow: 4, ATRPeriod: 3, BaselinePeriod: 20,
		VolatileRatio: 1.8, QuietRatio: 0.3, TrendStrength: 0.8,
	}
	c := NewClassifier(cfg)

	t0 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	flat := func(i int) market.Bar {
		return market.Bar{
			Time: t0.Add(time.Duration(i) * time.Minute),
			Open: 1.1000, High: 1.1005, Low: 1.0995, Close: 1.1000,
		}
	}
	var got risk.Regime
	for i := 0; i < 10; i++ {
		got = c.Update(flat(i))
	}
	assert.Equal(t, risk.RegimeRanging, got, "flat tape with steady range is ranging")

	// A sudden range expansion flips the label to volatile.
	got = c.Update(market.Bar{
		Time: t0.Add(10 * time.Minute),
		Open: 1.1000, High: 1.1100, Low: 1.0900, Close: 1.0950,
	})
	assert.Equal(t, risk.RegimeVolatile, got)
}

func TestClassifierTrending(t *testing.T) {
	t.Parallel()
	cfg := ClassifierConfig{
		Fast: 2, Slow: 4, ATRPeriod: 3, BaselinePeriod: 5,
		VolatileRatio: 10, QuietRatio: 0, TrendStrength: 0.5,
	}
	c := NewClassifier(cfg)

	t0 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	var got risk.Regime
	price := 1.1000
	for i := 0; i < 30; i++ {
		price += 0.0010
		got = c.Update(market.Bar{
			Time: t0.Add(time.Duration(i) * time.Minute),
			Open: price - 0.0010, High: price + 0.0002, Low: price - 0.0012, Close: price,
		})
	}
	assert.Equal(t, risk.RegimeTrending, got, "steady climb separates the EMAs")
}
