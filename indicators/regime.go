package indicators

import (
	"github.com/rustyeddy/riskgate/market"
	"github.com/rustyeddy/riskgate/risk"
)

// ClassifierConfig tunes the regime classifier thresholds.
type ClassifierConfig struct {
	Fast           int     `yaml:"fast" json:"fast"`
	Slow           int     `yaml:"slow" json:"slow"`
	ATRPeriod      int     `yaml:"atr_period" json:"atr_period"`
	BaselinePeriod int     `yaml:"baseline_period" json:"baseline_period"`
	VolatileRatio  float64 `yaml:"volatile_ratio" json:"volatile_ratio"`
	QuietRatio     float64 `yaml:"quiet_ratio" json:"quiet_ratio"`
	TrendStrength  float64 `yaml:"trend_strength" json:"trend_strength"`
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Fast:           12,
		Slow:           48,
		ATRPeriod:      14,
		BaselinePeriod: 100,
		VolatileRatio:  1.8,
		QuietRatio:     0.5,
		TrendStrength:  1.0,
	}
}

// Classifier labels each bar with a market regime from streaming EMA and ATR
// state. Volatility extremes are checked before trend strength so a violent
// trend still reads as volatile.
type Classifier struct {
	cfg      ClassifierConfig
	fast     *EMA
	slow     *EMA
	atr      *ATR
	baseline *EMA
}

func NewClassifier(cfg ClassifierConfig) *Classifier {
	return &Classifier{
		cfg:      cfg,
		fast:     NewEMA(cfg.Fast),
		slow:     NewEMA(cfg.Slow),
		atr:      NewATR(cfg.ATRPeriod),
		baseline: NewEMA(cfg.BaselinePeriod),
	}
}

func (c *Classifier) Reset() {
	c.fast.Reset()
	c.slow.Reset()
	c.atr.Reset()
	c.baseline.Reset()
}

// Update folds one bar in and returns the current label. During warmup it
// reports ranging, the neutral label.
func (c *Classifier) Update(b market.Bar) risk.Regime {
	c.fast.Update(b.Close)
	c.slow.Update(b.Close)
	c.atr.Update(b)
	c.baseline.Update(b.High - b.Low)

	if !c.slow.Ready() || !c.atr.Ready() {
		return risk.RegimeRanging
	}

	atr := c.atr.Value()
	base := c.baseline.Value()
	if base > 0 {
		if atr > c.cfg.VolatileRatio*base {
			return risk.RegimeVolatile
		}
		if atr < c.cfg.QuietRatio*base {
			return risk.RegimeQuiet
		}
	}

	spread := c.fast.Value() - c.slow.Value()
	if atr > 0 && abs(spread) > c.cfg.TrendStrength*atr {
		return risk.RegimeTrending
	}
	return risk.RegimeRanging
}
