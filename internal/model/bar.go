// Package model defines the core data types shared across the engine:
// OHLCV bars, signals, and sized signals.
package model

import (
	"encoding/json"
	"time"
)

// Bar represents one OHLCV bar for a single (symbol, timeframe).
// Prices are float64; crypto spot prices have no fixed sub-unit.
// Bars are immutable once appended to a series.
type Bar struct {
	Timestamp time.Time `json:"timestamp"` // bucket open time, UTC
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Body returns the absolute size of the candle body.
func (b Bar) Body() float64 {
	d := b.Close - b.Open
	if d < 0 {
		return -d
	}
	return d
}

// UpperShadow returns the wick above the body.
func (b Bar) UpperShadow() float64 {
	top := b.Close
	if b.Open > b.Close {
		top = b.Open
	}
	return b.High - top
}

// LowerShadow returns the wick below the body.
func (b Bar) LowerShadow() float64 {
	bottom := b.Close
	if b.Open < b.Close {
		bottom = b.Open
	}
	return bottom - b.Low
}

// Green reports whether the bar closed above its open.
func (b Bar) Green() bool { return b.Close > b.Open }

// Red reports whether the bar closed below its open.
func (b Bar) Red() bool { return b.Close < b.Open }

// JSON returns the JSON-encoded bar (ignoring errors for hot-path usage).
func (b *Bar) JSON() []byte {
	data, _ := json.Marshal(b)
	return data
}
