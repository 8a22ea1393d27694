package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"signal-enginev1/internal/model"
	"signal-enginev1/internal/risk"
)

const (
	// Stream trimming: ~a week of signals at a few per hour, with buffer.
	signalStreamMaxLen = 2000
	capitalTTL         = 24 * time.Hour
)

// Config configures the Redis publisher.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
}

// Publisher pushes generated signals onto a Redis stream and keeps the
// latest capital snapshot as a JSON key for dashboards.
type Publisher struct {
	client *goredis.Client
}

// Client returns the underlying Redis client for health checks.
func (p *Publisher) Client() *goredis.Client { return p.client }

// New creates a new Publisher and pings the server.
func New(cfg Config) (*Publisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[redis] connected to %s", cfg.Addr)
	return &Publisher{client: client}, nil
}

// PublishSignal appends a sized signal to stream:signals and publishes it on
// a pubsub channel for live consumers.
func (p *Publisher) PublishSignal(ctx context.Context, sized *model.SizedSignal) error {
	payload, err := json.Marshal(sized)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}

	sig := sized.Signal
	if err := p.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: "stream:signals",
		MaxLen: signalStreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"symbol":    sig.Symbol,
			"timeframe": sig.Timeframe,
			"direction": string(sig.Direction),
			"ts":        sig.GeneratedAt.Unix(),
			"data":      string(payload),
		},
	}).Err(); err != nil {
		return fmt.Errorf("redis xadd signal: %w", err)
	}

	if err := p.client.Publish(ctx, "pub:signals:"+sig.Symbol, payload).Err(); err != nil {
		log.Printf("[redis] pubsub signal publish error: %v", err)
	}
	return nil
}

// SetCapitalSnapshot stores the current risk metrics under a JSON key.
func (p *Publisher) SetCapitalSnapshot(ctx context.Context, m risk.Metrics) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal capital snapshot: %w", err)
	}
	if err := p.client.Set(ctx, "latest:capital", payload, capitalTTL).Err(); err != nil {
		return fmt.Errorf("redis set capital: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (p *Publisher) Close() error {
	return p.client.Close()
}
