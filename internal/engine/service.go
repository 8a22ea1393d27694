package engine

import (
	"context"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"signal-enginev1/config"
	"signal-enginev1/internal/events"
	"signal-enginev1/internal/logger"
	"signal-enginev1/internal/marketdata"
	"signal-enginev1/internal/metrics"
	"signal-enginev1/internal/model"
	"signal-enginev1/internal/notification"
	"signal-enginev1/internal/ringbuf"
	"signal-enginev1/internal/risk"
	"signal-enginev1/internal/series"
	redisstore "signal-enginev1/internal/store/redis"
	sqlitestore "signal-enginev1/internal/store/sqlite"
	"signal-enginev1/internal/tradinghours"
)

const liveRingCapacity = 256

// Service is the top-level orchestrator for the signal engine.
// It wires all dependencies, manages lifecycle, and drives the
// fetch-evaluate-publish cycle for every symbol/timeframe pair.
type Service struct {
	cfg *config.Config

	eng       *Engine
	provider  marketdata.Provider
	store     *sqlitestore.Store
	redis     *redisstore.Publisher // nil when REDIS_ADDR is unset
	kafka     *events.Producer      // nil when KAFKA_BROKERS is unset
	notifiers []notification.Notifier
	prom      *metrics.Metrics
	schedule  *tradinghours.Schedule

	symbols    []string
	timeframes []string
	series     map[string]*series.Series
	streams    map[string]*marketdata.KlineStream

	loc *time.Location
	now func() time.Time

	// mu guards the daily rollover state. The Run goroutine owns the
	// rollover itself, but RecordOutcome callers reach onTargetReached too.
	mu             sync.Mutex
	lastDay        string
	dayStart       time.Time
	targetNotified bool
}

// NewService creates a Service from the given Config. It opens SQLite and,
// when configured, connects Redis and Kafka.
func NewService(cfg *config.Config) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	schedule, err := tradinghours.Parse(cfg.TradingWindows, loc)
	if err != nil {
		return nil, err
	}

	rm := risk.NewManager(risk.Config{
		BaseCapital:        cfg.BaseCapital,
		MaxRiskPerTradePct: cfg.MaxRiskPerTradePct,
		DailyTargetPct:     cfg.DailyTargetPct,
	})

	svc := &Service{
		cfg:        cfg,
		eng:        New(cfg.Lookback, rm),
		provider:   marketdata.NewBinanceREST(cfg.BinanceBaseURL),
		prom:       metrics.NewMetrics(),
		schedule:   schedule,
		symbols:    cfg.ParseSymbols(),
		timeframes: cfg.ParseTimeframes(),
		series:     make(map[string]*series.Series),
		streams:    make(map[string]*marketdata.KlineStream),
		loc:        loc,
	}
	svc.now = func() time.Time { return time.Now().In(loc) }

	os.MkdirAll("data", 0o755)
	svc.store, err = sqlitestore.New(sqlitestore.Config{DBPath: cfg.SQLitePath})
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		svc.redis, err = redisstore.New(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			svc.store.Close()
			return nil, err
		}
	}

	if brokers := cfg.ParseKafkaBrokers(); len(brokers) > 0 {
		svc.kafka, err = events.NewProducer(events.Config{
			Brokers: brokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			svc.Close()
			return nil, err
		}
	}

	svc.notifiers = buildNotifiers(cfg)
	svc.prom.CurrentCapital.Set(cfg.BaseCapital)

	return svc, nil
}

func buildNotifiers(cfg *config.Config) []notification.Notifier {
	var ns []notification.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		ns = append(ns, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
		log.Println("[service] telegram notifier enabled")
	}
	if cfg.WebhookURL != "" {
		ns = append(ns, notification.NewWebhookNotifier(cfg.WebhookURL))
		log.Println("[service] webhook notifier enabled")
	}
	if len(ns) == 0 {
		ns = append(ns, notification.NewLogNotifier())
	}
	return ns
}

// Risk exposes the risk manager for outcome recording.
func (svc *Service) Risk() *risk.Manager { return svc.eng.Risk() }

// Run drives the evaluation loop until ctx is cancelled.
func (svc *Service) Run(ctx context.Context) error {
	slog.Info("starting signal engine",
		"symbols", svc.symbols,
		"timeframes", svc.timeframes,
		"lookback", svc.cfg.Lookback,
		"refresh_s", svc.cfg.RefreshIntervalS,
	)

	if svc.cfg.LiveStream {
		svc.startStreams(ctx)
	}

	now := svc.now()
	svc.mu.Lock()
	svc.lastDay = dayKey(now)
	svc.dayStart = startOfDay(now)
	svc.mu.Unlock()

	interval := time.Duration(svc.cfg.RefreshIntervalS) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	svc.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("signal engine stopping")
			return nil
		case <-ticker.C:
			svc.runCycle(ctx)
		}
	}
}

// startStreams launches one kline websocket per symbol/timeframe.
func (svc *Service) startStreams(ctx context.Context) {
	for _, sym := range svc.symbols {
		for _, tf := range svc.timeframes {
			ring := ringbuf.New(liveRingCapacity)
			stream := marketdata.NewKlineStream(svc.cfg.BinanceWSURL, sym, tf, ring,
				svc.prom.WSReconnects.Inc, svc.prom.RingBufOverflow.Inc)
			svc.streams[sym+":"+tf] = stream
			go stream.Run(ctx)
		}
	}
}

// runCycle evaluates every symbol/timeframe pair once. Errors are isolated
// per pair so one bad feed never stalls the rest.
func (svc *Service) runCycle(ctx context.Context) {
	svc.rollDayIfNeeded(ctx)

	if !svc.schedule.Contains(svc.now()) {
		return
	}

	for _, sym := range svc.symbols {
		for _, tf := range svc.timeframes {
			if ctx.Err() != nil {
				return
			}
			svc.evaluatePair(ctx, sym, tf)
		}
	}
}

// rollDayIfNeeded resets daily risk state when the calendar day changes in
// the configured timezone and sends the closed day's report. The report
// window starts at the closed day's midnight, not the new one, so the
// signal count covers the day being reported.
func (svc *Service) rollDayIfNeeded(ctx context.Context) {
	now := svc.now()
	day := dayKey(now)

	svc.mu.Lock()
	if day == svc.lastDay {
		svc.mu.Unlock()
		return
	}
	closedDayStart := svc.dayStart
	svc.lastDay = day
	svc.dayStart = startOfDay(now)
	svc.targetNotified = false
	svc.mu.Unlock()

	svc.sendDailyReport(ctx, closedDayStart)
	svc.Risk().ResetDaily()
	svc.prom.DailyTargetReached.Set(0)
	svc.prom.DailyPnL.Set(0)
	log.Printf("[service] daily reset for %s", day)
}

func (svc *Service) evaluatePair(ctx context.Context, sym, tf string) {
	start := time.Now()
	svc.prom.CyclesTotal.Inc()
	defer func() {
		svc.prom.CycleDur.Observe(time.Since(start).Seconds())
	}()

	cid := logger.CycleID(sym, tf, start)

	s := svc.seriesFor(sym, tf)
	if err := svc.syncBars(ctx, s); err != nil {
		svc.prom.FetchErrors.Inc()
		slog.Warn("bar sync failed", "cycle", cid, "err", err)
		return
	}

	sized, err := svc.eng.EvaluateCycle(s)
	if err != nil {
		svc.prom.EvalErrors.Inc()
		slog.Error("evaluation failed", "cycle", cid, "err", err)
		return
	}
	if sized == nil {
		return
	}

	svc.publishSignal(ctx, sized)
}

func (svc *Service) seriesFor(sym, tf string) *series.Series {
	key := sym + ":" + tf
	s, ok := svc.series[key]
	if !ok {
		s = series.New(sym, tf, svc.cfg.Lookback)
		svc.series[key] = s
	}
	return s
}

// syncBars feeds the series from the live stream when one is attached, or
// from the REST API otherwise. Live mode still bootstraps over REST until
// the series has seen a full lookback of history.
func (svc *Service) syncBars(ctx context.Context, s *series.Series) error {
	if stream, ok := svc.streams[s.Key()]; ok && s.Seen() >= s.Lookback() {
		for _, bar := range stream.Ring().Drain() {
			if err := s.Append(bar); err != nil {
				continue // replays from reconnects are expected
			}
			svc.prom.BarsSynced.Inc()
		}
		return nil
	}

	bars, err := svc.provider.FetchBars(ctx, s.Symbol(), s.Timeframe(), s.Lookback())
	if err != nil {
		return err
	}
	added, err := s.Sync(bars)
	if err != nil {
		return err
	}
	svc.prom.BarsSynced.Add(float64(added))
	return nil
}

// publishSignal fans a sized signal out to storage, streams, and notifiers,
// and opens a trade row unless the daily target has already been hit.
func (svc *Service) publishSignal(ctx context.Context, sized *model.SizedSignal) {
	sig := sized.Signal
	slog.Info("signal generated",
		"symbol", sig.Symbol,
		"timeframe", sig.Timeframe,
		"direction", sig.Direction,
		"entry", sig.EntryPrice,
		"stop", sig.StopLoss,
		"target", sig.TakeProfit,
		"size", sized.PositionSize,
	)
	svc.prom.SignalsTotal.WithLabelValues(string(sig.Direction)).Inc()

	wstart := time.Now()
	if err := svc.store.SaveSignal(sized); err != nil {
		slog.Error("signal persist failed", "err", err)
	}
	svc.prom.SQLiteWriteDur.Observe(time.Since(wstart).Seconds())

	if svc.redis != nil {
		if err := svc.redis.PublishSignal(ctx, sized); err != nil {
			slog.Error("redis publish failed", "err", err)
		} else {
			svc.prom.RedisPublishes.Inc()
		}
	}
	if svc.kafka != nil {
		if err := svc.kafka.PublishSignal(sized); err != nil {
			slog.Error("kafka publish failed", "err", err)
		} else {
			svc.prom.KafkaPublishes.Inc()
		}
	}

	svc.notify(ctx, notification.SignalAlert(sized))

	if svc.Risk().ShouldStopTradingToday() {
		svc.onTargetReached(ctx)
		return
	}
	if sized.PositionSize <= 0 {
		return
	}
	if _, err := svc.store.OpenTrade(sized); err != nil {
		slog.Error("trade open failed", "err", err)
		return
	}
	svc.prom.TradesOpened.Inc()
}

// RecordOutcome books a realized trade result: capital moves, the trade row
// closes, and the capital snapshot is republished.
func (svc *Service) RecordOutcome(ctx context.Context, tradeID int64, realizedPnL float64) error {
	rm := svc.Risk()
	rm.UpdateCapital(realizedPnL)
	m := rm.PerformanceMetrics()

	status := "won"
	if realizedPnL < 0 {
		status = "lost"
	}
	if err := svc.store.CloseTrade(tradeID, status, realizedPnL, m.CurrentCapital, svc.now()); err != nil {
		return err
	}
	svc.prom.TradesClosed.Inc()
	svc.prom.CurrentCapital.Set(m.CurrentCapital)
	svc.prom.DailyPnL.Set(m.DailyPnL)

	if svc.redis != nil {
		if err := svc.redis.SetCapitalSnapshot(ctx, m); err != nil {
			slog.Warn("capital snapshot publish failed", "err", err)
		}
	}
	if rm.ShouldStopTradingToday() {
		svc.onTargetReached(ctx)
	}
	return nil
}

// onTargetReached fires the daily report once per day when the target hits.
func (svc *Service) onTargetReached(ctx context.Context) {
	svc.prom.DailyTargetReached.Set(1)

	svc.mu.Lock()
	if svc.targetNotified {
		svc.mu.Unlock()
		return
	}
	svc.targetNotified = true
	since := svc.dayStart
	svc.mu.Unlock()

	log.Printf("[service] daily target reached, trade opening paused until reset")
	svc.sendDailyReport(ctx, since)
}

// sendDailyReport reports performance over signals generated since the
// given day start.
func (svc *Service) sendDailyReport(ctx context.Context, since time.Time) {
	count, err := svc.store.SignalsSince(since)
	if err != nil {
		slog.Warn("daily report signal count failed", "err", err)
	}
	svc.notify(ctx, notification.DailyReportAlert(
		svc.Risk().PerformanceMetrics(), svc.cfg.DailyTargetPct, count))
}

func (svc *Service) notify(ctx context.Context, alert notification.Alert) {
	for _, n := range svc.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			svc.prom.NotifyErrors.Inc()
			slog.Warn("notification failed", "title", alert.Title, "err", err)
		}
	}
}

// Close releases all external connections.
func (svc *Service) Close() {
	if svc.kafka != nil {
		svc.kafka.Close()
	}
	if svc.redis != nil {
		svc.redis.Close()
	}
	if svc.store != nil {
		svc.store.Close()
	}
}

func dayKey(t time.Time) string { return t.Format("2006-01-02") }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
