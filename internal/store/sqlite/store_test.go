package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"signal-enginev1/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DBPath: filepath.Join(t.TempDir(), "signals.db")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sizedFixture(ts time.Time) *model.SizedSignal {
	return &model.SizedSignal{
		Signal: model.Signal{
			Symbol:      "BTC/USDT",
			Timeframe:   "1h",
			Direction:   model.DirectionLong,
			EntryPrice:  35000,
			StopLoss:    34700,
			TakeProfit:  35900,
			GeneratedAt: ts,
			Trend:       model.TrendBullish,
			RSI:         55.5,
			VolumeRatio: 2.1,
		},
		PositionSize:    0.6667,
		RiskAmount:      200,
		ProfitPotential: 600,
		RiskPercent:     2.0,
		CapitalSnapshot: 10000,
	}
}

func TestSaveSignal_And_SignalsSince(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		sig := sizedFixture(now.Add(time.Duration(i) * time.Hour))
		if err := s.SaveSignal(sig); err != nil {
			t.Fatalf("save signal %d: %v", i, err)
		}
	}

	n, err := s.SignalsSince(now)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Errorf("SignalsSince(now)=%d, want 3", n)
	}

	// Cutoff after the first signal.
	n, err = s.SignalsSince(now.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("SignalsSince(+30m)=%d, want 2", n)
	}
}

func TestTradeLifecycle(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	id, err := s.OpenTrade(sizedFixture(now))
	if err != nil {
		t.Fatalf("open trade: %v", err)
	}
	if id == 0 {
		t.Fatal("trade id is zero")
	}

	open, err := s.OpenTrades()
	if err != nil {
		t.Fatalf("open trades: %v", err)
	}
	if len(open) != 1 || open[0] != id {
		t.Errorf("OpenTrades=%v, want [%d]", open, id)
	}

	if err := s.CloseTrade(id, "won", 600, 10600, now.Add(4*time.Hour)); err != nil {
		t.Fatalf("close trade: %v", err)
	}

	open, err = s.OpenTrades()
	if err != nil {
		t.Fatalf("open trades: %v", err)
	}
	if len(open) != 0 {
		t.Errorf("OpenTrades after close = %v, want empty", open)
	}

	// Closing again must fail: the row is no longer open.
	if err := s.CloseTrade(id, "won", 600, 10600, now); err == nil {
		t.Error("expected error closing an already-closed trade")
	}
}

func TestCloseTrade_UnknownID(t *testing.T) {
	s := openTestStore(t)
	if err := s.CloseTrade(999, "lost", -100, 9900, time.Now()); err == nil {
		t.Error("expected error for unknown trade id")
	}
}
