package strategy

import "signal-enginev1/internal/model"

// Detection windows, in bars.
const (
	sweepWindow         = 20
	orderBlockWindow    = 5
	consolidationWindow = 10
)

// StructureFeatures holds the structural and candlestick features detected
// over the trailing bar window. All fields are recomputed fresh every cycle.
type StructureFeatures struct {
	SweptUp    bool    `json:"swept_up"`   // current high takes out the window high
	SweptDown  bool    `json:"swept_down"` // current low takes out the window low
	RecentHigh float64 `json:"recent_high"`
	RecentLow  float64 `json:"recent_low"`

	BullishOrderBlock bool `json:"bullish_order_block"`
	BearishOrderBlock bool `json:"bearish_order_block"`
	Consolidation     bool `json:"consolidation"`

	BullishFVG bool `json:"bullish_fvg"`
	BearishFVG bool `json:"bearish_fvg"`

	Hammer           bool `json:"hammer"`
	ShootingStar     bool `json:"shooting_star"`
	BullishEngulfing bool `json:"bullish_engulfing"`
	BearishEngulfing bool `json:"bearish_engulfing"`
}

// DetectStructure computes all structure features from the trailing bars
// (at most the last 20 matter) and the current ATR. Fewer than two bars
// yield all-false features; longer windows too short for a given feature
// leave its flags false, never an error.
func DetectStructure(bars []model.Bar, atr float64) StructureFeatures {
	var f StructureFeatures
	n := len(bars)
	if n < 2 {
		return f
	}
	cur := bars[n-1]

	// Liquidity sweeps: extremes include the current bar, so a sweep is
	// detected on the bar that makes the new extreme.
	start := n - sweepWindow
	if start < 0 {
		start = 0
	}
	f.RecentHigh = bars[start].High
	f.RecentLow = bars[start].Low
	for _, b := range bars[start+1 : n] {
		if b.High > f.RecentHigh {
			f.RecentHigh = b.High
		}
		if b.Low < f.RecentLow {
			f.RecentLow = b.Low
		}
	}
	f.SweptUp = cur.High >= f.RecentHigh
	f.SweptDown = cur.Low <= f.RecentLow

	// Order blocks: current bar sweeping the prior 5-bar extreme but
	// closing back inside it.
	obStart := n - 1 - orderBlockWindow
	if obStart < 0 {
		obStart = 0
	}
	priorLow := bars[obStart].Low
	priorHigh := bars[obStart].High
	for _, b := range bars[obStart+1 : n-1] {
		if b.Low < priorLow {
			priorLow = b.Low
		}
		if b.High > priorHigh {
			priorHigh = b.High
		}
	}
	f.BullishOrderBlock = cur.Low <= priorLow && cur.Close > priorLow
	f.BearishOrderBlock = cur.High >= priorHigh && cur.Close < priorHigh

	// Consolidation: tight 10-bar range relative to ATR.
	cStart := n - consolidationWindow
	if cStart < 0 {
		cStart = 0
	}
	hi := bars[cStart].High
	lo := bars[cStart].Low
	for _, b := range bars[cStart+1 : n] {
		if b.High > hi {
			hi = b.High
		}
		if b.Low < lo {
			lo = b.Low
		}
	}
	f.Consolidation = (hi - lo) < 0.5*atr

	// Fair value gaps: three-bar price discontinuity with the middle bar
	// closing against the gap direction.
	if n >= 3 {
		third := bars[n-3]
		middle := bars[n-2]
		f.BullishFVG = cur.Low > third.High && middle.Red()
		f.BearishFVG = cur.High < third.Low && middle.Green()
	}

	// Candlestick patterns on the current bar.
	body := cur.Body()
	f.Hammer = cur.LowerShadow() >= 2*body && cur.UpperShadow() <= body && cur.Green()
	f.ShootingStar = cur.UpperShadow() >= 2*body && cur.LowerShadow() <= body && cur.Red()

	prev := bars[n-2]
	f.BullishEngulfing = prev.Red() && cur.Green() &&
		cur.Open < prev.Close && cur.Close > prev.Open
	f.BearishEngulfing = prev.Green() && cur.Red() &&
		cur.Open > prev.Close && cur.Close < prev.Open

	return f
}
