// Package series maintains the ordered bar window for one (symbol, timeframe)
// pair together with its incrementally-updated indicator set.
package series

import (
	"errors"
	"fmt"

	"signal-enginev1/internal/indicator"
	"signal-enginev1/internal/model"
)

// MinLookback is the minimum number of bars before any signal is trusted.
const MinLookback = 50

// ErrInvalidBarOrdering is returned when an appended bar does not strictly
// follow the last bar's timestamp. The series keeps its prior state.
var ErrInvalidBarOrdering = errors.New("series: bar timestamp not strictly increasing")

// Series is an append-only window of bars for one (symbol, timeframe).
// Bars are immutable once appended. The indicator set consumes every bar
// ever appended; the bar window itself is trimmed to the lookback so
// pattern detection stays O(window).
type Series struct {
	symbol    string
	timeframe string
	lookback  int

	bars []model.Bar
	set  *indicator.Set
	snap indicator.Snapshot
}

// New creates an empty series. Lookbacks below MinLookback are raised to it.
func New(symbol, timeframe string, lookback int) *Series {
	if lookback < MinLookback {
		lookback = MinLookback
	}
	return &Series{
		symbol:    symbol,
		timeframe: timeframe,
		lookback:  lookback,
		bars:      make([]model.Bar, 0, lookback),
		set:       indicator.NewSet(),
	}
}

// Append adds one bar and updates all indicators. Duplicate or out-of-order
// timestamps are a caller error: the bar is rejected and prior state kept.
func (s *Series) Append(bar model.Bar) error {
	if n := len(s.bars); n > 0 && !bar.Timestamp.After(s.bars[n-1].Timestamp) {
		return fmt.Errorf("%w: %s %s got %s after %s", ErrInvalidBarOrdering,
			s.symbol, s.timeframe,
			bar.Timestamp.Format("2006-01-02T15:04:05Z"),
			s.bars[len(s.bars)-1].Timestamp.Format("2006-01-02T15:04:05Z"))
	}

	if len(s.bars) >= s.lookback {
		// Trim the oldest bar; indicator state already absorbed it.
		copy(s.bars, s.bars[1:])
		s.bars = s.bars[:len(s.bars)-1]
	}
	s.bars = append(s.bars, bar)
	s.snap = s.set.Update(bar)
	return nil
}

// Sync appends every bar newer than the current tail, skipping overlap.
// Market-data fetches return overlapping trailing windows each cycle; the
// overlap is expected, only genuinely out-of-order bars are an error.
func (s *Series) Sync(bars []model.Bar) (int, error) {
	appended := 0
	for _, b := range bars {
		if n := len(s.bars); n > 0 && !b.Timestamp.After(s.bars[n-1].Timestamp) {
			continue
		}
		if err := s.Append(b); err != nil {
			return appended, err
		}
		appended++
	}
	return appended, nil
}

// Len returns the number of bars currently in the window.
func (s *Series) Len() int { return len(s.bars) }

// Seen returns the total number of bars ever appended, including trimmed ones.
func (s *Series) Seen() int { return s.set.Count() }

// Last returns the most recent bar.
func (s *Series) Last() (model.Bar, bool) {
	if len(s.bars) == 0 {
		return model.Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// Window returns the trailing n bars (fewer if not available). The returned
// slice aliases internal storage and must not be mutated.
func (s *Series) Window(n int) []model.Bar {
	if n >= len(s.bars) {
		return s.bars
	}
	return s.bars[len(s.bars)-n:]
}

// Snapshot returns the indicator snapshot for the latest bar.
func (s *Series) Snapshot() indicator.Snapshot { return s.snap }

func (s *Series) Symbol() string    { return s.symbol }
func (s *Series) Timeframe() string { return s.timeframe }
func (s *Series) Lookback() int     { return s.lookback }

// Key returns a unique key for this series: "symbol:timeframe".
func (s *Series) Key() string { return s.symbol + ":" + s.timeframe }
