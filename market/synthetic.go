package market

import (
	"math"
	"math/rand"
	"time"
)

// SyntheticConfig controls the demo bar generator. The generator is seeded, so
// the same config always produces the same bars.
type SyntheticConfig struct {
	Start      time.Time     `yaml:"start" json:"start"`
	Interval   time.Duration `yaml:"interval" json:"interval"`
	Bars       int           `yaml:"bars" json:"bars"`
	StartPrice float64       `yaml:"start_price" json:"start_price"`
	// VolPips is the typical bar range in pips.
	VolPips float64 `yaml:"vol_pips" json:"vol_pips"`
	// DriftPips is the per-bar directional bias in pips (positive = up).
	DriftPips   float64 `yaml:"drift_pips" json:"drift_pips"`
	PipLocation int     `yaml:"pip_location" json:"pip_location"`
	Seed        int64   `yaml:"seed" json:"seed"`
}

// Synthetic generates a deterministic random-walk bar series for demos and
// tests. It is not a market model; it only has to exercise the engine.
func Synthetic(cfg SyntheticConfig) []Bar {
	if cfg.Bars <= 0 {
		return nil
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	pip := PipSize(cfg.PipLocation)
	rng := rand.New(rand.NewSource(cfg.Seed))

	bars := make([]Bar, 0, cfg.Bars)
	price := cfg.StartPrice
	ts := cfg.Start

	for i := 0; i < cfg.Bars; i++ {
		drift := cfg.DriftPips * pip
		move := rng.NormFloat64()*cfg.VolPips*pip + drift

		open := price
		close := price + move
		span := math.Abs(move) + rng.Float64()*cfg.VolPips*pip
		high := math.Max(open, close) + span*rng.Float64()*0.5
		low := math.Min(open, close) - span*rng.Float64()*0.5
		if low <= 0 {
			low = math.Min(open, close) * 0.999
		}

		bars = append(bars, Bar{
			Time:   ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: 1000 + rng.Float64()*9000,
		})

		price = close
		ts = ts.Add(interval)
	}
	return bars
}
