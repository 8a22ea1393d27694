package indicator

import "time"

// Snapshot holds the per-bar derived values of a full indicator Set.
// Each group carries its own Ready flag; values belonging to a group whose
// flag is false are "insufficient data" and must never feed decisions.
type Snapshot struct {
	Bars      int       `json:"bars"` // number of bars consumed so far
	Timestamp time.Time `json:"timestamp"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`

	EMA21      float64 `json:"ema21"`
	EMA50      float64 `json:"ema50"`
	EMA200     float64 `json:"ema200"`
	TrendReady bool    `json:"trend_ready"` // all three EMAs seeded

	RSI      float64 `json:"rsi"`
	RSIReady bool    `json:"rsi_ready"`

	ATR      float64 `json:"atr"`
	ATRReady bool    `json:"atr_ready"`

	VolumeSMA   float64 `json:"volume_sma"`
	VolumeRatio float64 `json:"volume_ratio"` // 0 when SMA unavailable or zero
	VolumeReady bool    `json:"volume_ready"`

	BBUpper    float64 `json:"bb_upper"`
	BBMiddle   float64 `json:"bb_middle"`
	BBLower    float64 `json:"bb_lower"`
	BandsReady bool    `json:"bands_ready"`

	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_histogram"`
	MACDReady  bool    `json:"macd_ready"`

	Volatility      float64 `json:"volatility"` // rolling stdev of closes
	VolatilityReady bool    `json:"volatility_ready"`
}
