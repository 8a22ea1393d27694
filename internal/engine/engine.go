// Package engine wires the evaluation pipeline (indicators, trend and
// pattern classification, signal gating, position sizing) behind the
// single EvaluateCycle call the orchestration loop needs.
package engine

import (
	"errors"
	"time"

	"signal-enginev1/internal/model"
	"signal-enginev1/internal/risk"
	"signal-enginev1/internal/series"
	"signal-enginev1/internal/strategy"
)

// ErrInsufficientData marks a series shorter than the required lookback.
// EvaluateCycle swallows it into a "no signal" result; it is exported so
// callers bypassing the pipeline can distinguish the condition.
var ErrInsufficientData = errors.New("engine: series shorter than required lookback")

const patternWindow = 20

// Engine is the pure, non-suspending evaluation pipeline for one process.
// It holds no per-symbol state itself; each series carries its own window
// and indicator set, and the risk manager serializes capital access.
type Engine struct {
	lookback int
	risk     *risk.Manager
	now      func() time.Time
}

// New creates an Engine. Lookbacks below the series minimum are raised to it.
func New(lookback int, rm *risk.Manager) *Engine {
	if lookback < series.MinLookback {
		lookback = series.MinLookback
	}
	return &Engine{
		lookback: lookback,
		risk:     rm,
		now:      time.Now,
	}
}

// Risk exposes the capital manager for reporting and outcome updates.
func (e *Engine) Risk() *risk.Manager { return e.risk }

// EvaluateCycle runs one full evaluation over the series.
//
// Returns (nil, nil) when there is no actionable signal: short series,
// sideways market, failed gates. A sized signal with PositionSize zero is
// returned when entry and stop coincide; callers must not act on it.
// A non-nil error means the cycle was aborted (contract violation) and
// must never corrupt capital state or sibling evaluations.
func (e *Engine) EvaluateCycle(s *series.Series) (*model.SizedSignal, error) {
	if s == nil || s.Seen() < e.lookback {
		return nil, nil
	}

	snap := s.Snapshot()
	feats := strategy.DetectStructure(s.Window(patternWindow), snap.ATR)

	sig, err := strategy.Evaluate(s.Symbol(), s.Timeframe(), snap, feats, e.now())
	if err != nil {
		return nil, err
	}
	if !sig.Actionable() {
		return nil, nil
	}

	sized, err := e.risk.Size(sig)
	if errors.Is(err, risk.ErrInsufficientRisk) {
		// Zero-sized result: recorded but never traded.
		return &sized, nil
	}
	if err != nil {
		return nil, err
	}
	return &sized, nil
}
