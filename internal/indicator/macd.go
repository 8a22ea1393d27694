package indicator

import (
	"signal-enginev1/internal/model"
)

// MACD calculates Moving Average Convergence Divergence:
// macd = EMA(fast) - EMA(slow); signal = EMA(signalPeriod) of macd;
// histogram = macd - signal. The signal line only starts accumulating
// once both underlying EMAs are seeded.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA
}

// NewMACD creates a MACD indicator (typically 12, 26, 9).
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: NewEMA(signalPeriod),
	}
}

func (m *MACD) Update(bar model.Bar) {
	m.fast.Update(bar)
	m.slow.Update(bar)

	if m.fast.Ready() && m.slow.Ready() {
		m.signal.UpdateValue(m.fast.Value() - m.slow.Value())
	}
}

// Ready reports whether the signal line has accumulated its full period.
func (m *MACD) Ready() bool { return m.signal.Ready() }

// Line returns the MACD line (fast EMA - slow EMA).
func (m *MACD) Line() float64 { return m.fast.Value() - m.slow.Value() }

// Signal returns the signal line.
func (m *MACD) Signal() float64 { return m.signal.Value() }

// Histogram returns macd - signal.
func (m *MACD) Histogram() float64 { return m.Line() - m.signal.Value() }
