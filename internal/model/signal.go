package model

import "time"

// Direction is the side of a trading signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
	// DirectionNone is a valid, terminal, non-actionable result,
	// the common case for most evaluation cycles.
	DirectionNone Direction = "NONE"
)

// Trend classifies the market state from the latest EMA ordering.
type Trend string

const (
	TrendBullish  Trend = "BULLISH"
	TrendBearish  Trend = "BEARISH"
	TrendSideways Trend = "SIDEWAYS"
)

// Signal is a directional decision with its price levels.
// Entry/StopLoss/TakeProfit equal the last close when Direction is NONE.
type Signal struct {
	Symbol      string    `json:"symbol"`
	Timeframe   string    `json:"timeframe"`
	Direction   Direction `json:"direction"`
	EntryPrice  float64   `json:"entry_price"`
	StopLoss    float64   `json:"stop_loss"`
	TakeProfit  float64   `json:"take_profit"`
	GeneratedAt time.Time `json:"generated_at"`

	// Evaluation context, carried for persistence and alerting.
	Trend       Trend   `json:"trend"`
	RSI         float64 `json:"rsi"`
	VolumeRatio float64 `json:"volume_ratio"`
}

// Actionable reports whether the signal calls for a trade.
func (s *Signal) Actionable() bool {
	return s.Direction == DirectionLong || s.Direction == DirectionShort
}

// SizedSignal is a Signal after capital-aware position sizing.
type SizedSignal struct {
	Signal

	PositionSize    float64 `json:"position_size"`
	RiskAmount      float64 `json:"risk_amount"`
	ProfitPotential float64 `json:"profit_potential"`
	RiskPercent     float64 `json:"risk_percent"`
	// CapitalSnapshot is the capital the sizing was computed against.
	CapitalSnapshot float64 `json:"capital_snapshot"`
}
