package strategy

import (
	"errors"
	"fmt"
	"time"

	"signal-enginev1/internal/indicator"
	"signal-enginev1/internal/model"
)

// Gate thresholds.
const (
	VolumeSpikeFactor = 1.3  // volume must exceed SMA(volume,20) by this factor
	RSILowerBound     = 30.0 // exclusive
	RSIUpperBound     = 70.0 // exclusive
	EntryATRFactor    = 0.1  // entry offset from close
	StopATRFactor     = 1.5  // stop distance from entry
	RewardRiskRatio   = 3.0  // fixed take-profit multiple of risk
)

// ErrContractViolation reports a long and short gate passing simultaneously.
// The trend gate makes the sides mutually exclusive by construction, so this
// indicates a gating bug and must abort the cycle loudly.
var ErrContractViolation = errors.New("strategy: long and short signals simultaneously true")

// Evaluate combines trend, volume, RSI and structure gates into a signal.
//
// Long requires: bullish trend, volume spike, RSI inside (30, 70), a swept
// low or bullish fair value gap, and a bullish order block, hammer or
// bullish engulfing. Short mirrors every gate under a bearish trend,
// with the same RSI band for both directions.
func Evaluate(symbol, timeframe string, snap indicator.Snapshot, feats StructureFeatures, now time.Time) (model.Signal, error) {
	trend := ClassifyTrend(snap)

	volumeOK := snap.VolumeReady && snap.VolumeSMA > 0 &&
		snap.Volume > snap.VolumeSMA*VolumeSpikeFactor
	rsiOK := snap.RSIReady && snap.RSI > RSILowerBound && snap.RSI < RSIUpperBound

	longOK := trend == model.TrendBullish &&
		volumeOK && rsiOK && snap.ATRReady &&
		(feats.SweptDown || feats.BullishFVG) &&
		(feats.BullishOrderBlock || feats.Hammer || feats.BullishEngulfing)

	shortOK := trend == model.TrendBearish &&
		volumeOK && rsiOK && snap.ATRReady &&
		(feats.SweptUp || feats.BearishFVG) &&
		(feats.BearishOrderBlock || feats.ShootingStar || feats.BearishEngulfing)

	if longOK && shortOK {
		return model.Signal{}, fmt.Errorf("%w: %s %s", ErrContractViolation, symbol, timeframe)
	}

	sig := model.Signal{
		Symbol:      symbol,
		Timeframe:   timeframe,
		Direction:   model.DirectionNone,
		GeneratedAt: now,
		Trend:       trend,
		RSI:         snap.RSI,
		VolumeRatio: snap.VolumeRatio,
	}

	switch {
	case longOK:
		sig.Direction = model.DirectionLong
		sig.EntryPrice = snap.Close - EntryATRFactor*snap.ATR
		sig.StopLoss = sig.EntryPrice - StopATRFactor*snap.ATR
		sig.TakeProfit = sig.EntryPrice + RewardRiskRatio*(sig.EntryPrice-sig.StopLoss)
	case shortOK:
		sig.Direction = model.DirectionShort
		sig.EntryPrice = snap.Close + EntryATRFactor*snap.ATR
		sig.StopLoss = sig.EntryPrice + StopATRFactor*snap.ATR
		sig.TakeProfit = sig.EntryPrice - RewardRiskRatio*(sig.StopLoss-sig.EntryPrice)
	default:
		// No signal: the common case, not an error.
		sig.EntryPrice = snap.Close
		sig.StopLoss = snap.Close
		sig.TakeProfit = snap.Close
	}

	return sig, nil
}
