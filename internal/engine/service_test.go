package engine

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-enginev1/config"
	"signal-enginev1/internal/metrics"
	"signal-enginev1/internal/model"
	"signal-enginev1/internal/notification"
	"signal-enginev1/internal/risk"
	sqlitestore "signal-enginev1/internal/store/sqlite"
)

// Registered once for the whole test binary; Prometheus rejects duplicate
// collector registration.
var testProm = metrics.NewMetrics()

type captureNotifier struct {
	mu     sync.Mutex
	alerts []notification.Alert
}

func (c *captureNotifier) Send(_ context.Context, a notification.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, a)
	return nil
}

func (c *captureNotifier) snapshot() []notification.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notification.Alert(nil), c.alerts...)
}

func newRolloverTestService(t *testing.T, now func() time.Time) (*Service, *captureNotifier) {
	t.Helper()

	store, err := sqlitestore.New(sqlitestore.Config{
		DBPath: filepath.Join(t.TempDir(), "signals.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	rm := risk.NewManager(risk.Config{
		BaseCapital:        10000,
		MaxRiskPerTradePct: 2,
		DailyTargetPct:     6,
	})
	sink := &captureNotifier{}
	svc := &Service{
		cfg:       &config.Config{DailyTargetPct: 6},
		eng:       New(300, rm),
		store:     store,
		prom:      testProm,
		notifiers: []notification.Notifier{sink},
		loc:       time.UTC,
		now:       now,
	}
	return svc, sink
}

func savedSignalAt(t *testing.T, store *sqlitestore.Store, at time.Time) {
	t.Helper()
	err := store.SaveSignal(&model.SizedSignal{
		Signal: model.Signal{
			Symbol: "BTC/USDT", Timeframe: "1h",
			Direction: model.DirectionLong, GeneratedAt: at,
			Trend: model.TrendBullish,
		},
		PositionSize: 1,
	})
	require.NoError(t, err)
}

// The rollover report must cover the day being closed. Signals written
// yesterday belong to yesterday's report even though the report is sent
// just after the new midnight.
func TestRollDayIfNeeded_ReportsClosedDay(t *testing.T) {
	yesterday := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	justAfterMidnight := time.Date(2026, 8, 29, 0, 0, 30, 0, time.UTC)

	svc, sink := newRolloverTestService(t, func() time.Time { return justAfterMidnight })
	svc.lastDay = dayKey(yesterday)
	svc.dayStart = startOfDay(yesterday)

	savedSignalAt(t, svc.store, yesterday)
	savedSignalAt(t, svc.store, yesterday.Add(4*time.Hour))
	savedSignalAt(t, svc.store, yesterday.Add(13*time.Hour+59*time.Minute))

	svc.Risk().UpdateCapital(300)

	svc.rollDayIfNeeded(context.Background())

	alerts := sink.snapshot()
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "Signals today: 3")
	assert.Contains(t, alerts[0].Message, "Daily P&L: 300.00")

	// Daily risk state is reset for the new day, capital carries over.
	m := svc.Risk().PerformanceMetrics()
	assert.Equal(t, 0.0, m.DailyPnL)
	assert.Equal(t, 10300.0, m.CurrentCapital)
	assert.Equal(t, "2026-08-29", svc.lastDay)
	assert.Equal(t, startOfDay(justAfterMidnight), svc.dayStart)
	assert.False(t, svc.targetNotified)
}

func TestRollDayIfNeeded_SameDayIsNoop(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	svc, sink := newRolloverTestService(t, func() time.Time { return now })
	svc.lastDay = dayKey(now)
	svc.dayStart = startOfDay(now)

	svc.Risk().UpdateCapital(150)
	svc.rollDayIfNeeded(context.Background())

	assert.Empty(t, sink.snapshot())
	assert.Equal(t, 150.0, svc.Risk().PerformanceMetrics().DailyPnL)
}

// Concurrent target notifications collapse to a single report. The target
// path is reached both from the evaluation loop and from outcome recording.
func TestOnTargetReached_NotifiesOnce(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	svc, sink := newRolloverTestService(t, func() time.Time { return now })
	svc.lastDay = dayKey(now)
	svc.dayStart = startOfDay(now)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.onTargetReached(context.Background())
		}()
	}
	wg.Wait()

	alerts := sink.snapshot()
	require.Len(t, alerts, 1)
	assert.True(t, strings.Contains(alerts[0].Title, "Daily trading report"))
}
