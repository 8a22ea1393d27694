package strategy

import (
	"testing"

	"signal-enginev1/internal/indicator"
	"signal-enginev1/internal/model"
)

func trendSnap(close, ema21, ema50, ema200 float64, ready bool) indicator.Snapshot {
	return indicator.Snapshot{
		Close: close, EMA21: ema21, EMA50: ema50, EMA200: ema200,
		TrendReady: ready,
	}
}

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name string
		snap indicator.Snapshot
		want model.Trend
	}{
		{"bullish stack", trendSnap(110, 108, 105, 100, true), model.TrendBullish},
		{"bearish stack", trendSnap(90, 92, 95, 100, true), model.TrendBearish},
		{"close below fast ema", trendSnap(107, 108, 105, 100, true), model.TrendSideways},
		{"mixed emas", trendSnap(110, 105, 108, 100, true), model.TrendSideways},
		{"tie close and ema21", trendSnap(108, 108, 105, 100, true), model.TrendSideways},
		{"tie ema50 and ema200", trendSnap(110, 108, 100, 100, true), model.TrendSideways},
		{"not ready", trendSnap(110, 108, 105, 100, false), model.TrendSideways},
		{"not ready bearish shape", trendSnap(90, 92, 95, 100, false), model.TrendSideways},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyTrend(tc.snap); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}
