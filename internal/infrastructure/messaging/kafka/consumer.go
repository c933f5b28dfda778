package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

// ConsumerConfig holds configuration for the Consumer.
type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	Topic       string
	StartOffset string // earliest, latest
	MinBytes    int
	MaxBytes    int
	MaxWait     time.Duration
	Security    SecurityConfig
}

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// VisualizedHandler processes one decoded event.
type VisualizedHandler func(ctx context.Context, ev *session.VisualizedEvent) error

// Consumer reads visualized events from one topic.
type Consumer struct {
	reader ReaderInterface
	logger logging.Logger
}

// NewConsumer creates a Consumer in consumer group cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, logger logging.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.CodeValidation, "brokers required")
	}
	if cfg.GroupID == "" {
		return nil, errors.New(errors.CodeValidation, "group id required")
	}
	if cfg.Topic == "" {
		cfg.Topic = TopicMoleculeVisualized
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10 * 1024 * 1024
	}
	if cfg.MaxWait == 0 {
		cfg.MaxWait = 500 * time.Millisecond
	}
	mech, err := cfg.Security.mechanism()
	if err != nil {
		return nil, err
	}
	start := kafka.LastOffset
	if cfg.StartOffset == "earliest" {
		start = kafka.FirstOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     cfg.MaxWait,
		StartOffset: start,
		Dialer: &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			TLS:           cfg.Security.tlsConfig(),
			SASLMechanism: mech,
		},
	})
	return newConsumerWithReader(reader, logger), nil
}

func newConsumerWithReader(r ReaderInterface, logger logging.Logger) *Consumer {
	return &Consumer{reader: r, logger: logger}
}

// Run fetches messages until ctx is done. Undecodable messages are logged
// and committed; a handler error stops the loop without committing.
func (c *Consumer) Run(ctx context.Context, handler VisualizedHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.CodeServiceUnavailable, "fetch failed")
		}

		var ev session.VisualizedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.logger.Warn("Skipping undecodable event",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
		} else if err := handler(ctx, &ev); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return errors.Wrap(err, errors.CodeServiceUnavailable, "commit failed")
		}
	}
}

// Close closes the reader.
func (c *Consumer) Close() error { return c.reader.Close() }

//Personal.AI order the ending
