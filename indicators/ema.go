// Package indicators holds the small streaming indicators the strategies and
// the regime classifier are built from. Each keeps O(1) state and updates
// once per bar.
package indicators

// EMA is a streaming exponential moving average.
type EMA struct {
	period int
	alpha  float64
	value  float64
	count  int
}

func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / (float64(period) + 1.0),
	}
}

func (e *EMA) Reset() {
	e.value = 0
	e.count = 0
}

func (e *EMA) Update(x float64) {
	e.count++
	if e.count == 1 {
		e.value = x
		return
	}
	e.value = e.alpha*x + (1.0-e.alpha)*e.value
}

// Ready reports whether enough samples have been seen for the value to be
// meaningful.
func (e *EMA) Ready() bool { return e.count >= e.period }

func (e *EMA) Value() float64 { return e.value }
