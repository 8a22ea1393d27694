package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-enginev1/internal/model"
	"signal-enginev1/internal/risk"
	"signal-enginev1/internal/series"
)

func testRisk() *risk.Manager {
	return risk.NewManager(risk.Config{
		BaseCapital:        10000,
		MaxRiskPerTradePct: 2.0,
		DailyTargetPct:     5.0,
	})
}

// uptrendSeries builds a drifting, oscillating uptrend. The oscillation
// keeps RSI in the mid-band while the drift keeps the EMA stack ordered.
func uptrendSeries(t *testing.T, n int) *series.Series {
	t.Helper()
	s := series.New("BTC/USDT", "1h", 250)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < n; i++ {
		c := 100 + 0.02*float64(i)
		if i%2 == 1 {
			c += 0.3
		}
		bar := model.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c - 0.1,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    1000,
		}
		require.NoError(t, s.Append(bar))
	}
	return s
}

func TestEvaluateCycle_ShortSeries_NoSignal(t *testing.T) {
	eng := New(250, testRisk())

	sized, err := eng.EvaluateCycle(uptrendSeries(t, 100))
	require.NoError(t, err)
	assert.Nil(t, sized)
}

func TestEvaluateCycle_NilSeries(t *testing.T) {
	eng := New(250, testRisk())

	sized, err := eng.EvaluateCycle(nil)
	require.NoError(t, err)
	assert.Nil(t, sized)
}

func TestEvaluateCycle_UptrendWithoutTrigger_NoSignal(t *testing.T) {
	// A clean uptrend but no volume spike and no sweep on the last bar.
	eng := New(250, testRisk())

	sized, err := eng.EvaluateCycle(uptrendSeries(t, 260))
	require.NoError(t, err)
	assert.Nil(t, sized)
}

func TestEvaluateCycle_LongSetup_ProducesSizedSignal(t *testing.T) {
	eng := New(250, testRisk())
	s := uptrendSeries(t, 259)

	// Final bar: a green hammer that sweeps the 20-bar low on 3x volume.
	last, ok := s.Last()
	require.True(t, ok)
	p := last.Close
	trigger := model.Bar{
		Timestamp: last.Timestamp.Add(time.Hour),
		Open:      p + 0.1,
		High:      p + 0.35,
		Low:       p - 2.0,
		Close:     p + 0.3,
		Volume:    3000,
	}
	require.NoError(t, s.Append(trigger))

	sized, err := eng.EvaluateCycle(s)
	require.NoError(t, err)
	require.NotNil(t, sized)

	sig := sized.Signal
	assert.Equal(t, model.DirectionLong, sig.Direction)
	assert.Equal(t, model.TrendBullish, sig.Trend)
	assert.Equal(t, "BTC/USDT", sig.Symbol)

	// Long entries sit below the close by a fraction of ATR; the stop is
	// below the entry and the target three times the risk above it.
	assert.Less(t, sig.EntryPrice, trigger.Close)
	assert.Less(t, sig.StopLoss, sig.EntryPrice)
	assert.InDelta(t, 3*(sig.EntryPrice-sig.StopLoss), sig.TakeProfit-sig.EntryPrice, 1e-9)

	// Sized against 2% of 10000.
	assert.InDelta(t, 200.0, sized.RiskAmount, 1e-9)
	assert.Greater(t, sized.PositionSize, 0.0)
	assert.Equal(t, 10000.0, sized.CapitalSnapshot)

	// RSI and volume context travel with the signal.
	assert.Greater(t, sig.RSI, 30.0)
	assert.Less(t, sig.RSI, 70.0)
	assert.Greater(t, sig.VolumeRatio, 1.3)
}

func TestNew_RaisesLookbackToSeriesMinimum(t *testing.T) {
	eng := New(5, testRisk())

	// 10 bars exceed the requested lookback of 5 but not the enforced
	// minimum, so no signal may be produced.
	sized, err := eng.EvaluateCycle(uptrendSeries(t, 10))
	require.NoError(t, err)
	assert.Nil(t, sized)
}
