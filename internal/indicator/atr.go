package indicator

import (
	"math"
	"strconv"

	"signal-enginev1/internal/model"
)

// ATR calculates the Average True Range with Wilder smoothing.
// True range = max(high-low, |high-prevClose|, |low-prevClose|);
// the first bar has no previous close, so its TR is high-low.
// Seeded with the SMA of the first `period` true ranges.
type ATR struct {
	period    int
	count     int
	prevClose float64
	sum       float64
	current   float64
}

// NewATR creates a new ATR indicator with the given period (typically 14).
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string { return "ATR_" + strconv.Itoa(a.period) }

func (a *ATR) Update(bar model.Bar) {
	tr := bar.High - bar.Low
	if a.count > 0 {
		tr = math.Max(tr, math.Max(
			math.Abs(bar.High-a.prevClose),
			math.Abs(bar.Low-a.prevClose),
		))
	}
	a.prevClose = bar.Close
	a.count++

	if a.count <= a.period {
		// Accumulate for the initial SMA seed.
		a.sum += tr
		if a.count == a.period {
			a.current = a.sum / float64(a.period)
		}
		return
	}

	// Wilder smoothing.
	a.current = (a.current*float64(a.period-1) + tr) / float64(a.period)
}

func (a *ATR) Value() float64 { return a.current }
func (a *ATR) Ready() bool    { return a.count >= a.period }
