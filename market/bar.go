package market

import (
	"fmt"
	"time"
)

// Bar is one OHLCV sample for a fixed time interval. Bars are immutable once
// produced and strictly ordered by Time within a feed.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns the high-low span of the bar. It is used as the volatility
// proxy for slippage models.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// Validate checks the bar for internal consistency. A failing bar is a feed
// error and fatal to the run that consumed it.
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return fmt.Errorf("bar has zero timestamp")
	}
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return fmt.Errorf("bar %s has non-positive price", b.Time.Format(time.RFC3339))
	}
	if b.High < b.Low {
		return fmt.Errorf("bar %s high %.5f below low %.5f", b.Time.Format(time.RFC3339), b.High, b.Low)
	}
	if b.Open > b.High || b.Open < b.Low {
		return fmt.Errorf("bar %s open %.5f outside [low, high]", b.Time.Format(time.RFC3339), b.Open)
	}
	if b.Close > b.High || b.Close < b.Low {
		return fmt.Errorf("bar %s close %.5f outside [low, high]", b.Time.Format(time.RFC3339), b.Close)
	}
	return nil
}
