// Package metrics exposes Prometheus metrics and the /metrics HTTP server
// for the signal engine.
package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal engine.
type Metrics struct {
	CyclesTotal  prometheus.Counter
	CycleDur     prometheus.Histogram
	SignalsTotal *prometheus.CounterVec // labels: direction
	EvalErrors   prometheus.Counter
	FetchErrors  prometheus.Counter
	BarsSynced   prometheus.Counter

	WSReconnects    prometheus.Counter
	RingBufOverflow prometheus.Counter

	SQLiteWriteDur prometheus.Histogram
	RedisPublishes prometheus.Counter
	KafkaPublishes prometheus.Counter
	NotifyErrors   prometheus.Counter

	CurrentCapital     prometheus.Gauge
	DailyPnL           prometheus.Gauge
	DailyTargetReached prometheus.Gauge // 0 or 1
	TradesOpened       prometheus.Counter
	TradesClosed       prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_cycles_total",
			Help: "Total evaluation cycles run",
		}),
		CycleDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sigengine_cycle_duration_seconds",
			Help:    "Evaluation cycle latency per symbol/timeframe",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sigengine_signals_total",
			Help: "Signals generated (by direction)",
		}, []string{"direction"}),
		EvalErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_eval_errors_total",
			Help: "Evaluation cycles aborted by an error",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_fetch_errors_total",
			Help: "Market data fetch failures",
		}),
		BarsSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_bars_synced_total",
			Help: "New bars appended to series",
		}),
		WSReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_ws_reconnects_total",
			Help: "WebSocket stream reconnection attempts",
		}),
		RingBufOverflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_ringbuf_overflow_total",
			Help: "Live bars dropped due to full ring buffer",
		}),
		SQLiteWriteDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sigengine_sqlite_write_duration_seconds",
			Help:    "SQLite write latency",
			Buckets: prometheus.DefBuckets,
		}),
		RedisPublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_redis_publishes_total",
			Help: "Signals published to the Redis stream",
		}),
		KafkaPublishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_kafka_publishes_total",
			Help: "Signal events produced to Kafka",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_notify_errors_total",
			Help: "Notification delivery failures",
		}),
		CurrentCapital: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sigengine_current_capital",
			Help: "Current capital after realized PnL",
		}),
		DailyPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sigengine_daily_pnl",
			Help: "Realized PnL since the last daily reset",
		}),
		DailyTargetReached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sigengine_daily_target_reached",
			Help: "1 when the daily target circuit breaker is tripped",
		}),
		TradesOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_trades_opened_total",
			Help: "Trade rows opened from sized signals",
		}),
		TradesClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sigengine_trades_closed_total",
			Help: "Trade outcomes recorded",
		}),
	}

	prometheus.MustRegister(
		m.CyclesTotal, m.CycleDur, m.SignalsTotal, m.EvalErrors,
		m.FetchErrors, m.BarsSynced, m.WSReconnects, m.RingBufOverflow,
		m.SQLiteWriteDur, m.RedisPublishes, m.KafkaPublishes, m.NotifyErrors,
		m.CurrentCapital, m.DailyPnL, m.DailyTargetReached,
		m.TradesOpened, m.TradesClosed,
	)
	return m
}

// Server runs an HTTP server exposing /metrics.
type Server struct {
	srv *http.Server
}

// NewServer creates the metrics server.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
