package producers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/config"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/segmentio/kafka-go"
)

const (
	reasonHeader      = "dlq-reason"
	sourceTopicHeader = "dlq-source-topic"
)

var errDLQDisabled = errors.New("DLQ producer not initialized")

// DeadLetter is the envelope parked on the DLQ topic for an entry event the
// worker could not decode. Payload keeps the raw bytes as JSON when they are
// valid JSON and as a quoted string otherwise.
type DeadLetter struct {
	SourceTopic   string          `json:"source_topic"`
	Key           string          `json:"key"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	FailedAt      time.Time       `json:"failed_at"`
}

type DLQProducer struct {
	logger      *slog.Logger
	writer      KafkaWriter
	topic       string
	sourceTopic string
	now         func() time.Time
}

// NewDLQProducer returns a nil producer when cfg.DLQTopic is empty
func NewDLQProducer(ctx context.Context, log *slog.Logger, cfg *config.KafkaConfig) (*DLQProducer, error) {
	if cfg.DLQTopic == "" {
		log.Info("DLQ topic is not configured, undecodable entry events will only be logged")
		return nil, nil
	}

	if err := ensureTopic(cfg, cfg.DLQTopic, log); err != nil {
		return nil, fmt.Errorf("failed to ensure DLQ topic %s exists: %w", cfg.DLQTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.BrokerList()...),
		Topic:        cfg.DLQTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.MaxWait,
	}

	return &DLQProducer{
		logger:      log.With("topic", cfg.DLQTopic),
		writer:      writer,
		topic:       cfg.DLQTopic,
		sourceTopic: cfg.EntryEventsTopic,
		now:         time.Now,
	}, nil
}

func (p *DLQProducer) envelope(ctx context.Context, key string, value []byte, reason string) DeadLetter {
	payload := json.RawMessage(value)
	if !json.Valid(value) {
		quoted, _ := json.Marshal(string(value))
		payload = quoted
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	return DeadLetter{
		SourceTopic:   p.sourceTopic,
		Key:           key,
		Payload:       payload,
		Reason:        reason,
		CorrelationID: logger.CorrelationID(ctx),
		FailedAt:      now().UTC(),
	}
}

// PublishToDLQ parks value under the same key it was consumed with
func (p *DLQProducer) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	if p == nil || p.writer == nil {
		return errDLQDisabled
	}

	letter := p.envelope(ctx, key, value, reason)
	body, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: reasonHeader, Value: []byte(reason)},
			{Key: sourceTopicHeader, Value: []byte(p.sourceTopic)},
		},
	}
	if letter.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: CorrelationHeader, Value: []byte(letter.CorrelationID)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to park entry event", "key", key, "error", err)
		return fmt.Errorf("failed to publish message to DLQ %s: %w", p.topic, err)
	}

	p.logger.Warn("Parked entry event", "key", key, "reason", reason)
	return nil
}

func (p *DLQProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	p.logger.Info("Closing DLQ producer")
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close DLQ writer for topic %s: %w", p.topic, err)
	}
	return nil
}
