package indicator

import (
	"strconv"

	"signal-enginev1/internal/model"
)

// EMA calculates the Exponential Moving Average of closes.
// Seeded with the SMA of the first `period` values, then
// ema = price*k + prev*(1-k) with k = 2/(period+1). O(1) per update.
type EMA struct {
	period     int
	multiplier float64
	current    float64
	count      int
	sum        float64
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period:     period,
		multiplier: 2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return "EMA_" + strconv.Itoa(e.period) }

func (e *EMA) Update(bar model.Bar) {
	e.UpdateValue(bar.Close)
}

// UpdateValue feeds a raw value. Used directly by MACD, whose signal line
// is an EMA over the MACD difference rather than over bar closes.
func (e *EMA) UpdateValue(v float64) {
	e.count++

	if e.count <= e.period {
		// Accumulate for the initial SMA seed.
		e.sum += v
		if e.count == e.period {
			e.current = e.sum / float64(e.period)
		}
		return
	}

	e.current = (v * e.multiplier) + (e.current * (1 - e.multiplier))
}

func (e *EMA) Value() float64 { return e.current }
func (e *EMA) Ready() bool    { return e.count >= e.period }
