// Package notification delivers finalized signals and daily reports to
// external channels (Telegram, webhooks) for the trading engine.
package notification

import (
	"context"
	"fmt"
	"log"

	"signal-enginev1/internal/model"
	"signal-enginev1/internal/risk"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// Alert represents a notification to be sent. Signal carries the structured
// sized signal when the alert announces one; text-only backends ignore it.
type Alert struct {
	Level   AlertLevel         `json:"level"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Signal  *model.SizedSignal `json:"signal,omitempty"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails.
	Send(ctx context.Context, alert Alert) error
}

// SignalAlert formats a sized signal for delivery.
func SignalAlert(s *model.SizedSignal) Alert {
	return Alert{
		Level:  AlertInfo,
		Signal: s,
		Title:  fmt.Sprintf("%s %s (%s)", s.Direction, s.Symbol, s.Timeframe),
		Message: fmt.Sprintf(
			"Entry: %.4f\nStop loss: %.4f\nTake profit: %.4f\n"+
				"Position size: %.4f\nRisk: %.2f (%.1f%% of %.2f)\n"+
				"Potential: %.2f\nTrend: %s | RSI: %.1f | Vol ratio: %.2fx",
			s.EntryPrice, s.StopLoss, s.TakeProfit,
			s.PositionSize, s.RiskAmount, s.RiskPercent, s.CapitalSnapshot,
			s.ProfitPotential, s.Trend, s.RSI, s.VolumeRatio),
	}
}

// DailyReportAlert formats the end-of-day performance report sent when the
// daily target circuit breaker trips.
func DailyReportAlert(m risk.Metrics, dailyTargetPct float64, signalsToday int) Alert {
	return Alert{
		Level: AlertInfo,
		Title: "Daily trading report",
		Message: fmt.Sprintf(
			"Capital: %.2f\nDaily P&L: %.2f (%.2f%%)\nDaily target: %.1f%%\n"+
				"Total P&L: %.2f (%.2f%%)\nSignals today: %d\n\nDaily target reached, pausing until tomorrow.",
			m.CurrentCapital, m.DailyPnL, m.DailyReturnPct, dailyTargetPct,
			m.TotalPnL, m.TotalReturnPct, signalsToday),
	}
}

// LogNotifier is a simple notifier that logs alerts (useful for development
// and as the fallback when no channel is configured).
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}
