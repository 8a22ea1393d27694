// Package risk converts directional signals into risk-bounded position
// sizes and tracks capital and PnL state, including the daily-target
// circuit breaker consulted by the orchestration loop.
package risk

import (
	"errors"
	"log"
	"sync"

	"signal-enginev1/internal/model"
)

// ErrInsufficientRisk is returned when entry and stop coincide: the risk
// per unit is zero, so no position can be sized. The returned SizedSignal
// carries zero size/amount fields; this is not fatal.
var ErrInsufficientRisk = errors.New("risk: zero distance between entry and stop")

// Config holds the capital parameters, loaded once at startup.
type Config struct {
	BaseCapital        float64 // starting capital, denominator for return %
	MaxRiskPerTradePct float64 // % of current capital risked per trade
	DailyTargetPct     float64 // daily return % at which trading stops
}

// Metrics is a read-only view of capital performance.
type Metrics struct {
	CurrentCapital     float64 `json:"current_capital"`
	DailyPnL           float64 `json:"daily_pnl"`
	TotalPnL           float64 `json:"total_pnl"`
	DailyReturnPct     float64 `json:"daily_return_pct"`
	TotalReturnPct     float64 `json:"total_return_pct"`
	DailyTargetReached bool    `json:"daily_target_reached"`
}

// Manager exclusively owns the capital state. All mutation funnels through
// Size and UpdateCapital under a single mutex, so concurrent evaluations of
// different symbols observe a consistent capital.
type Manager struct {
	mu  sync.RWMutex
	cfg Config

	currentCapital float64
	dailyPnL       float64
	totalPnL       float64
}

// NewManager creates a Manager with capital at the configured base.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg:            cfg,
		currentCapital: cfg.BaseCapital,
	}
}

// Size converts a directional signal into a sized order against current
// capital: risk_amount = capital * max_risk%, position = risk_amount / |entry-stop|.
func (m *Manager) Size(sig model.Signal) (model.SizedSignal, error) {
	m.mu.RLock()
	capital := m.currentCapital
	m.mu.RUnlock()

	sized := model.SizedSignal{
		Signal:          sig,
		RiskPercent:     m.cfg.MaxRiskPerTradePct,
		CapitalSnapshot: capital,
	}

	riskPerUnit := sig.EntryPrice - sig.StopLoss
	if riskPerUnit < 0 {
		riskPerUnit = -riskPerUnit
	}
	if riskPerUnit == 0 {
		return sized, ErrInsufficientRisk
	}

	sized.RiskAmount = capital * m.cfg.MaxRiskPerTradePct / 100
	sized.PositionSize = sized.RiskAmount / riskPerUnit

	profitPerUnit := sig.TakeProfit - sig.EntryPrice
	if profitPerUnit < 0 {
		profitPerUnit = -profitPerUnit
	}
	sized.ProfitPotential = sized.PositionSize * profitPerUnit

	return sized, nil
}

// UpdateCapital applies one realized trade outcome. Must be called exactly
// once per closed trade by the execution/reporting collaborator; the
// engine never infers outcomes.
func (m *Manager) UpdateCapital(realizedPnL float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dailyPnL += realizedPnL
	m.totalPnL += realizedPnL
	m.currentCapital += realizedPnL

	log.Printf("[risk] realized %.2f, daily P&L: %.2f, capital: %.2f",
		realizedPnL, m.dailyPnL, m.currentCapital)
}

// ShouldStopTradingToday reports whether the daily return has reached the
// configured target. Exact equality counts as reached. Pure read.
func (m *Manager) ShouldStopTradingToday() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dailyReturnLocked() >= m.cfg.DailyTargetPct
}

// PerformanceMetrics returns a consistent snapshot of capital performance.
func (m *Manager) PerformanceMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	daily := m.dailyReturnLocked()
	return Metrics{
		CurrentCapital:     m.currentCapital,
		DailyPnL:           m.dailyPnL,
		TotalPnL:           m.totalPnL,
		DailyReturnPct:     daily,
		TotalReturnPct:     m.totalPnL / m.cfg.BaseCapital * 100,
		DailyTargetReached: daily >= m.cfg.DailyTargetPct,
	}
}

// ResetDaily clears the daily PnL counter. Day-boundary detection belongs
// to the orchestration loop.
func (m *Manager) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyPnL = 0
}

func (m *Manager) dailyReturnLocked() float64 {
	return m.dailyPnL / m.cfg.BaseCapital * 100
}
