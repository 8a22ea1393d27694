package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"signal-enginev1/internal/model"
)

const (
	eventSource   = "signal-engine"
	schemaVersion = "1.0"
)

// SignalEvent is the envelope published to Kafka for downstream consumers
// (alerting, ranking, journaling).
type SignalEvent struct {
	EventType     string     `json:"event_type"`
	Source        string     `json:"source"`
	SchemaVersion string     `json:"schema_version"`
	Timestamp     time.Time  `json:"timestamp"`
	Data          SignalData `json:"data"`
}

// SignalData carries the sized signal plus a few flattened fields consumers
// filter on without unpacking the full payload.
type SignalData struct {
	Symbol    string             `json:"symbol"`
	Timeframe string             `json:"timeframe"`
	Direction string             `json:"direction"`
	Trend     string             `json:"trend"`
	Signal    *model.SizedSignal `json:"signal"`
}

// Config configures the Kafka producer.
type Config struct {
	Brokers []string
	Topic   string
}

// Producer publishes signal events to a Kafka topic.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects a synchronous producer. Idempotent delivery with
// acks from all in-sync replicas.
func NewProducer(cfg Config) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_8_0_0

	producer, err := sarama.NewSyncProducer(cfg.Brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	log.Printf("[events] kafka producer connected to %v, topic %s", cfg.Brokers, cfg.Topic)
	return &Producer{producer: producer, topic: cfg.Topic}, nil
}

// PublishSignal sends a signal.generated event keyed by symbol so per-symbol
// ordering is preserved across partitions.
func (p *Producer) PublishSignal(sized *model.SizedSignal) error {
	ev := SignalEvent{
		EventType:     "signal.generated",
		Source:        eventSource,
		SchemaVersion: schemaVersion,
		Timestamp:     time.Now().UTC(),
		Data: SignalData{
			Symbol:    sized.Signal.Symbol,
			Timeframe: sized.Signal.Timeframe,
			Direction: string(sized.Signal.Direction),
			Trend:     string(sized.Signal.Trend),
			Signal:    sized,
		},
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal signal event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(sized.Signal.Symbol),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("kafka send: %w", err)
	}
	return nil
}

// Close shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
