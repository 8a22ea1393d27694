// Package strategy turns indicator-enriched bar series into directional
// trading signals: trend classification, structural/candlestick pattern
// detection, and the multi-factor gate that combines them.
package strategy

import (
	"signal-enginev1/internal/indicator"
	"signal-enginev1/internal/model"
)

// ClassifyTrend derives the trend from the latest snapshot only.
// Bullish requires close > EMA21 > EMA50 > EMA200 with strict inequalities;
// Bearish the strict reverse. Any tie, or an unseeded EMA stack, is Sideways.
func ClassifyTrend(snap indicator.Snapshot) model.Trend {
	if !snap.TrendReady {
		return model.TrendSideways
	}
	switch {
	case snap.Close > snap.EMA21 && snap.EMA21 > snap.EMA50 && snap.EMA50 > snap.EMA200:
		return model.TrendBullish
	case snap.Close < snap.EMA21 && snap.EMA21 < snap.EMA50 && snap.EMA50 < snap.EMA200:
		return model.TrendBearish
	default:
		return model.TrendSideways
	}
}
