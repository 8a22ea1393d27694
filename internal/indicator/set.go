package indicator

import (
	"signal-enginev1/internal/model"
)

// Standard periods for the signal engine's indicator set.
const (
	EMAFastPeriod   = 21
	EMAMidPeriod    = 50
	EMASlowPeriod   = 200
	RSIPeriod       = 14
	ATRPeriod       = 14
	VolumeSMAPeriod = 20
	BandPeriod      = 20
	BandFactor      = 2.0
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
)

// Set bundles every indicator the engine derives for one (symbol, timeframe)
// series. One bar in, one Snapshot out; all carried state is incremental.
// Designed for single-goroutine usage; no locks.
type Set struct {
	ema21  *EMA
	ema50  *EMA
	ema200 *EMA
	rsi    *RSI
	atr    *ATR
	volSMA *SMA
	bands  *Bollinger
	macd   *MACD

	count int
	last  Snapshot
}

// NewSet creates a Set with the engine's standard periods.
func NewSet() *Set {
	return &Set{
		ema21:  NewEMA(EMAFastPeriod),
		ema50:  NewEMA(EMAMidPeriod),
		ema200: NewEMA(EMASlowPeriod),
		rsi:    NewRSI(RSIPeriod),
		atr:    NewATR(ATRPeriod),
		volSMA: NewVolumeSMA(VolumeSMAPeriod),
		bands:  NewBollinger(BandPeriod, BandFactor),
		macd:   NewMACD(MACDFast, MACDSlow, MACDSignal),
	}
}

// Update feeds one bar to every indicator and returns the enriched snapshot.
func (s *Set) Update(bar model.Bar) Snapshot {
	s.ema21.Update(bar)
	s.ema50.Update(bar)
	s.ema200.Update(bar)
	s.rsi.Update(bar)
	s.atr.Update(bar)
	s.volSMA.Update(bar)
	s.bands.Update(bar)
	s.macd.Update(bar)
	s.count++

	snap := Snapshot{
		Bars:      s.count,
		Timestamp: bar.Timestamp,
		Close:     bar.Close,
		Volume:    bar.Volume,

		EMA21:      s.ema21.Value(),
		EMA50:      s.ema50.Value(),
		EMA200:     s.ema200.Value(),
		TrendReady: s.ema21.Ready() && s.ema50.Ready() && s.ema200.Ready(),

		RSI:      s.rsi.Value(),
		RSIReady: s.rsi.Ready(),

		ATR:      s.atr.Value(),
		ATRReady: s.atr.Ready(),

		VolumeSMA:   s.volSMA.Value(),
		VolumeReady: s.volSMA.Ready(),

		BBUpper:    s.bands.Upper(),
		BBMiddle:   s.bands.Middle(),
		BBLower:    s.bands.Lower(),
		BandsReady: s.bands.Ready(),

		MACD:       s.macd.Line(),
		MACDSignal: s.macd.Signal(),
		MACDHist:   s.macd.Histogram(),
		MACDReady:  s.macd.Ready(),

		Volatility:      s.bands.Sigma(),
		VolatilityReady: s.bands.Ready(),
	}

	// Volume ratio is undefined (non-qualifying, not an error) while the
	// SMA is unavailable or zero.
	if snap.VolumeReady && snap.VolumeSMA > 0 {
		snap.VolumeRatio = bar.Volume / snap.VolumeSMA
	}

	s.last = snap
	return snap
}

// Last returns the snapshot produced by the most recent Update.
func (s *Set) Last() Snapshot { return s.last }

// Count returns the number of bars consumed.
func (s *Set) Count() int { return s.count }
