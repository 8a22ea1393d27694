package series

import (
	"errors"
	"testing"
	"time"

	"signal-enginev1/internal/model"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func barAt(i int, close float64) model.Bar {
	return model.Bar{
		Timestamp: t0.Add(time.Duration(i) * time.Hour),
		Open:      close, High: close + 1, Low: close - 1, Close: close,
		Volume: 1000,
	}
}

func TestAppend_RejectsOutOfOrder(t *testing.T) {
	s := New("BTC/USDT", "1h", 50)
	if err := s.Append(barAt(0, 100)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append(barAt(1, 101)); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Duplicate timestamp.
	if err := s.Append(barAt(1, 102)); !errors.Is(err, ErrInvalidBarOrdering) {
		t.Fatalf("duplicate ts: got %v, want ErrInvalidBarOrdering", err)
	}
	// Older timestamp.
	if err := s.Append(barAt(0, 99)); !errors.Is(err, ErrInvalidBarOrdering) {
		t.Fatalf("older ts: got %v, want ErrInvalidBarOrdering", err)
	}

	// Prior state must be intact.
	if s.Len() != 2 || s.Seen() != 2 {
		t.Errorf("Len=%d Seen=%d after rejections, want 2/2", s.Len(), s.Seen())
	}
	last, ok := s.Last()
	if !ok || last.Close != 101 {
		t.Errorf("last close = %v, want 101", last.Close)
	}
}

func TestAppend_TrimsToLookback(t *testing.T) {
	s := New("BTC/USDT", "1h", 50)
	for i := 0; i < 120; i++ {
		if err := s.Append(barAt(i, 100+float64(i))); err != nil {
			t.Fatalf("append bar %d: %v", i, err)
		}
	}

	if s.Len() != 50 {
		t.Errorf("Len=%d, want 50", s.Len())
	}
	if s.Seen() != 120 {
		t.Errorf("Seen=%d, want 120", s.Seen())
	}

	// Oldest surviving bar is bar 70.
	w := s.Window(50)
	if w[0].Close != 170 {
		t.Errorf("oldest windowed close = %v, want 170", w[0].Close)
	}
	if got := len(s.Window(20)); got != 20 {
		t.Errorf("Window(20) len = %d", got)
	}
}

func TestSync_SkipsOverlap(t *testing.T) {
	s := New("BTC/USDT", "1h", 50)

	first := []model.Bar{barAt(0, 100), barAt(1, 101), barAt(2, 102)}
	added, err := s.Sync(first)
	if err != nil || added != 3 {
		t.Fatalf("first sync: added=%d err=%v", added, err)
	}

	// Overlapping refetch: two stale bars plus two new ones.
	second := []model.Bar{barAt(1, 101), barAt(2, 102), barAt(3, 103), barAt(4, 104)}
	added, err = s.Sync(second)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if added != 2 {
		t.Errorf("second sync added=%d, want 2", added)
	}
	if s.Seen() != 5 {
		t.Errorf("Seen=%d, want 5", s.Seen())
	}
	last, _ := s.Last()
	if last.Close != 104 {
		t.Errorf("last close = %v, want 104", last.Close)
	}
}

func TestNew_RaisesLookbackToMinimum(t *testing.T) {
	s := New("BTC/USDT", "1h", 5)
	if s.Lookback() != MinLookback {
		t.Errorf("Lookback=%d, want %d", s.Lookback(), MinLookback)
	}
}

func TestKey(t *testing.T) {
	s := New("ETH/USDT", "4h", 50)
	if s.Key() != "ETH/USDT:4h" {
		t.Errorf("Key=%q", s.Key())
	}
}

func TestSnapshot_TracksIndicators(t *testing.T) {
	s := New("BTC/USDT", "1h", 300)
	for i := 0; i < 250; i++ {
		if err := s.Append(barAt(i, 100+0.1*float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	snap := s.Snapshot()
	if !snap.TrendReady || !snap.RSIReady || !snap.ATRReady {
		t.Errorf("snapshot not fully ready after 250 bars: %+v", snap)
	}
	if snap.Close != 100+0.1*249 {
		t.Errorf("snapshot close = %v", snap.Close)
	}
}
