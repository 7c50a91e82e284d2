package indicators

import "github.com/rustyeddy/riskgate/market"

// ATR is a streaming average true range with Wilder smoothing.
type ATR struct {
	period    int
	value     float64
	count     int
	prevClose float64
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Reset() {
	a.value = 0
	a.count = 0
	a.prevClose = 0
}

func (a *ATR) Update(b market.Bar) {
	tr := b.High - b.Low
	if a.count > 0 {
		if hc := abs(b.High - a.prevClose); hc > tr {
			tr = hc
		}
		if lc := abs(b.Low - a.prevClose); lc > tr {
			tr = lc
		}
	}
	a.prevClose = b.Close

	a.count++
	if a.count == 1 {
		a.value = tr
		return
	}
	n := float64(a.period)
	a.value = (a.value*(n-1) + tr) / n
}

func (a *ATR) Ready() bool { return a.count >= a.period }

func (a *ATR) Value() float64 { return a.value }

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
