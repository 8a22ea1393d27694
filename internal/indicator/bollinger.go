package indicator

import (
	"signal-enginev1/internal/model"
)

// Bollinger calculates Bollinger Bands: SMA(period) ± factor·stdev(period).
// Composed from an SMA and a rolling StdDev over the same close window.
type Bollinger struct {
	sma    *SMA
	stddev *StdDev
	factor float64
}

// NewBollinger creates Bollinger Bands with the given period and band factor
// (typically 20 and 2).
func NewBollinger(period int, factor float64) *Bollinger {
	return &Bollinger{
		sma:    NewSMA(period),
		stddev: NewStdDev(period),
		factor: factor,
	}
}

func (b *Bollinger) Update(bar model.Bar) {
	b.sma.Update(bar)
	b.stddev.Update(bar)
}

func (b *Bollinger) Ready() bool { return b.sma.Ready() && b.stddev.Ready() }

// Middle returns the middle band (the SMA).
func (b *Bollinger) Middle() float64 { return b.sma.Value() }

// Upper returns the upper band.
func (b *Bollinger) Upper() float64 { return b.sma.Value() + b.factor*b.stddev.Value() }

// Lower returns the lower band.
func (b *Bollinger) Lower() float64 { return b.sma.Value() - b.factor*b.stddev.Value() }

// Sigma returns the rolling standard deviation backing the bands,
// doubling as the series' rolling volatility measure.
func (b *Bollinger) Sigma() float64 { return b.stddev.Value() }
