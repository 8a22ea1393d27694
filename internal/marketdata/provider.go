// Package marketdata supplies OHLCV bars from the exchange: a REST client
// for backfill and per-cycle refresh, and a websocket stream for live
// closed bars. Retry/backoff lives here, never inside the evaluation core.
package marketdata

import (
	"context"
	"strings"

	"signal-enginev1/internal/model"
)

// Provider fetches an ordered, ascending bar sequence for one symbol and
// timeframe. Implementations may return fewer bars than requested, or
// none, and callers must treat that as "no signal", not as a failure.
type Provider interface {
	FetchBars(ctx context.Context, symbol, timeframe string, limit int) ([]model.Bar, error)
}

// pairToMarket converts a "BTC/USDT"-style pair into the exchange's
// concatenated market symbol ("BTCUSDT").
func pairToMarket(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}
