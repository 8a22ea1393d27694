// Package indicator provides incremental technical indicator calculations
// over OHLCV bars. Every indicator keeps the minimal carried state (previous
// EMA value, Wilder averages, a fixed window for rolling stats) and updates
// in O(1)-ish time per new bar, with no history rescans per cycle. A full batch
// recomputation over the same bars must produce identical values.
package indicator

import "signal-enginev1/internal/model"

// Indicator is the interface for all scalar technical indicators.
type Indicator interface {
	// Name returns the indicator name (e.g., "EMA_21", "RSI_14").
	Name() string

	// Update feeds a new bar and recalculates.
	Update(bar model.Bar)

	// Value returns the current calculated value. Returns 0 if not enough data.
	Value() float64

	// Ready returns true when enough data has been accumulated. Values from
	// a not-ready indicator are undefined and must not feed decisions.
	Ready() bool
}
