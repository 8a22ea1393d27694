package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"signal-enginev1/internal/model"
)

const (
	defaultBaseURL = "https://api.binance.com"
	maxKlineLimit  = 1000
)

// BinanceREST fetches klines from the Binance spot REST API.
type BinanceREST struct {
	baseURL string
	client  *http.Client
}

// NewBinanceREST creates a REST bar provider. baseURL may be empty for the
// production endpoint (override for testnet or a local fixture server).
func NewBinanceREST(baseURL string) *BinanceREST {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &BinanceREST{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchBars requests up to limit klines for the symbol/timeframe, returning
// them in ascending timestamp order. Short or empty results are returned
// as-is; the caller decides whether it has enough history.
func (b *BinanceREST) FetchBars(ctx context.Context, symbol, timeframe string, limit int) ([]model.Bar, error) {
	if limit <= 0 || limit > maxKlineLimit {
		limit = maxKlineLimit
	}

	q := url.Values{}
	q.Set("symbol", pairToMarket(symbol))
	q.Set("interval", timeframe)
	q.Set("limit", strconv.Itoa(limit))

	reqURL := b.baseURL + "/api/v3/klines?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("marketdata: create request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketdata: fetch klines %s %s: %w", symbol, timeframe, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("marketdata: klines %s %s: status %d: %s",
			symbol, timeframe, resp.StatusCode, string(body))
	}

	// Binance kline rows: [openTimeMs, "open", "high", "low", "close",
	// "volume", closeTimeMs, ...]; prices come as strings.
	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("marketdata: decode klines: %w", err)
	}

	bars := make([]model.Bar, 0, len(rows))
	for _, row := range rows {
		bar, err := parseKlineRow(row)
		if err != nil {
			log.Printf("[marketdata] skipping malformed kline for %s %s: %v", symbol, timeframe, err)
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseKlineRow(row []json.RawMessage) (model.Bar, error) {
	if len(row) < 6 {
		return model.Bar{}, fmt.Errorf("row has %d fields", len(row))
	}

	var openTimeMs int64
	if err := json.Unmarshal(row[0], &openTimeMs); err != nil {
		return model.Bar{}, fmt.Errorf("open time: %w", err)
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		var s string
		if err := json.Unmarshal(row[i], &s); err != nil {
			return model.Bar{}, fmt.Errorf("field %d: %w", i, err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i-1] = v
	}

	return model.Bar{
		Timestamp: time.UnixMilli(openTimeMs).UTC(),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}
