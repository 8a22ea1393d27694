package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"signal-enginev1/internal/model"
	"signal-enginev1/internal/ringbuf"
)

const (
	defaultWSURL     = "wss://stream.binance.com:9443/ws"
	reconnectBackoff = 2 * time.Second
	maxBackoff       = 60 * time.Second
	readDeadline     = 90 * time.Second
)

// KlineStream consumes the exchange's kline websocket for one
// (symbol, timeframe) and pushes CLOSED bars into a ring buffer drained by
// the evaluation loop. Forming bars are skipped: indicators only ever see
// finalized bars.
type KlineStream struct {
	wsURL     string
	symbol    string
	timeframe string
	ring      *ringbuf.Ring

	// Metrics hooks, invoked per reconnection attempt and per dropped bar.
	onReconnect func()
	onDrop      func()
}

// NewKlineStream creates a stream for one symbol/timeframe. wsURL may be
// empty for the production endpoint.
func NewKlineStream(wsURL, symbol, timeframe string, ring *ringbuf.Ring, onReconnect, onDrop func()) *KlineStream {
	if wsURL == "" {
		wsURL = defaultWSURL
	}
	return &KlineStream{
		wsURL:       wsURL,
		symbol:      symbol,
		timeframe:   timeframe,
		ring:        ring,
		onReconnect: onReconnect,
		onDrop:      onDrop,
	}
}

// Ring returns the buffer the stream pushes into.
func (s *KlineStream) Ring() *ringbuf.Ring { return s.ring }

// Run connects and consumes until ctx is done, reconnecting with capped
// exponential backoff on any read or dial failure.
func (s *KlineStream) Run(ctx context.Context) {
	stream := strings.ToLower(pairToMarket(s.symbol)) + "@kline_" + s.timeframe
	endpoint := s.wsURL + "/" + stream
	backoff := reconnectBackoff

	for {
		if ctx.Err() != nil {
			return
		}

		err := s.consume(ctx, endpoint)
		if ctx.Err() != nil {
			return
		}
		log.Printf("[marketdata] ws %s disconnected: %v, reconnecting in %s", stream, err, backoff)
		if s.onReconnect != nil {
			s.onReconnect()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// consume runs one websocket session until failure or ctx cancellation.
func (s *KlineStream) consume(ctx context.Context, endpoint string) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, endpoint, nil)
	cancel()
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	log.Printf("[marketdata] ws connected: %s", endpoint)

	// Unblock ReadMessage when ctx is cancelled. The done channel releases
	// the watcher when the session ends first, so reconnect cycles do not
	// pile up one goroutine per session.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		bar, closed, err := parseKlineEvent(payload)
		if err != nil {
			log.Printf("[marketdata] ws %s: bad kline event: %v", s.symbol, err)
			continue
		}
		if !closed {
			continue
		}
		if !s.ring.Push(bar) {
			log.Printf("[marketdata] ws %s: ring full, dropped bar %s",
				s.symbol, bar.Timestamp.Format(time.RFC3339))
			if s.onDrop != nil {
				s.onDrop()
			}
		}
	}
}

// klineEvent mirrors the exchange's kline stream payload.
type klineEvent struct {
	EventType   string `json:"e"`
	EventTimeMs int64  `json:"E"`
	Kline       struct {
		OpenTimeMs  int64  `json:"t"`
		CloseTimeMs int64  `json:"T"`
		Open        string `json:"o"`
		High        string `json:"h"`
		Low         string `json:"l"`
		Close       string `json:"c"`
		Volume      string `json:"v"`
		Closed      bool   `json:"x"`
	} `json:"k"`
}

func parseKlineEvent(payload []byte) (model.Bar, bool, error) {
	var ev klineEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return model.Bar{}, false, err
	}
	if ev.EventType != "kline" {
		return model.Bar{}, false, nil
	}

	fields := [5]string{ev.Kline.Open, ev.Kline.High, ev.Kline.Low, ev.Kline.Close, ev.Kline.Volume}
	var vals [5]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return model.Bar{}, false, fmt.Errorf("kline field %d: %w", i, err)
		}
		vals[i] = v
	}

	return model.Bar{
		Timestamp: time.UnixMilli(ev.Kline.OpenTimeMs).UTC(),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, ev.Kline.Closed, nil
}
