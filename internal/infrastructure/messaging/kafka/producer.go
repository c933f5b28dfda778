// Package kafka publishes and consumes MolViz domain events with
// segmentio/kafka-go.
package kafka

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

var ErrProducerClosed = errors.New(errors.CodeInternal, "producer closed")

// ProducerConfig holds configuration for the Producer.
type ProducerConfig struct {
	Brokers          []string
	Acks             string // none, one, all
	MaxRetries       int
	BatchTimeout     time.Duration
	MaxMessageBytes  int
	CompressionCodec string
	WriteTimeout     time.Duration
	Security         SecurityConfig
}

// ProducerMetrics counts publish outcomes.
type ProducerMetrics struct {
	MessagesSent   atomic.Int64
	MessagesFailed atomic.Int64
	BytesSent      atomic.Int64
}

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Message is one record to publish.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
	Time    time.Time
}

// Producer writes messages synchronously.
type Producer struct {
	writer  WriterInterface
	config  ProducerConfig
	logger  logging.Logger
	closed  atomic.Bool
	metrics *ProducerMetrics
}

// NewProducer creates a Producer. Connections are opened lazily on the first
// write.
func NewProducer(cfg ProducerConfig, logger logging.Logger) (*Producer, error) {
	if err := ValidateProducerConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BatchTimeout == 0 {
		// events are published one at a time
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.MaxMessageBytes == 0 {
		cfg.MaxMessageBytes = 1024 * 1024
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	mech, err := cfg.Security.mechanism()
	if err != nil {
		return nil, err
	}
	transport := &kafka.Transport{
		DialTimeout: 10 * time.Second,
		TLS:         cfg.Security.tlsConfig(),
		SASL:        mech,
	}

	var acks kafka.RequiredAcks
	switch cfg.Acks {
	case "none":
		acks = kafka.RequireNone
	case "all":
		acks = kafka.RequireAll
	default:
		acks = kafka.RequireOne
	}

	var compression kafka.Compression
	switch cfg.CompressionCodec {
	case "gzip":
		compression = kafka.Gzip
	case "snappy":
		compression = kafka.Snappy
	case "lz4":
		compression = kafka.Lz4
	case "zstd":
		compression = kafka.Zstd
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxRetries + 1,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: acks,
		Compression:  compression,
		Transport:    transport,
	}

	return &Producer{writer: writer, config: cfg, logger: logger, metrics: &ProducerMetrics{}}, nil
}

// Publish writes a single message.
func (p *Producer) Publish(ctx context.Context, msg *Message) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if msg.Topic == "" {
		return errors.New(errors.CodeValidation, "topic required")
	}
	if len(msg.Value) == 0 {
		return errors.New(errors.CodeValidation, "value required")
	}
	if len(msg.Value) > p.config.MaxMessageBytes {
		return errors.New(errors.CodeValidation, "message too large")
	}

	start := time.Now()
	if err := p.writer.WriteMessages(ctx, toKafkaMessage(msg)); err != nil {
		p.metrics.MessagesFailed.Add(1)
		return errors.Wrap(err, errors.CodeServiceUnavailable, "publish failed")
	}
	p.metrics.MessagesSent.Add(1)
	p.metrics.BytesSent.Add(int64(len(msg.Value)))

	p.logger.Debug("Message published",
		logging.String("topic", msg.Topic),
		logging.Duration("latency", time.Since(start)))
	return nil
}

// Sent returns the number of successfully published messages.
func (p *Producer) Sent() int64 { return p.metrics.MessagesSent.Load() }

// Failed returns the number of failed publishes.
func (p *Producer) Failed() int64 { return p.metrics.MessagesFailed.Load() }

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("Kafka producer closed", logging.Int64("sent", p.metrics.MessagesSent.Load()))
	return err
}

func toKafkaMessage(msg *Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	ts := msg.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return kafka.Message{Topic: msg.Topic, Key: msg.Key, Value: msg.Value, Headers: headers, Time: ts}
}

// ValidateProducerConfig checks the required fields.
func ValidateProducerConfig(cfg ProducerConfig) error {
	if len(cfg.Brokers) == 0 {
		return errors.New(errors.CodeValidation, "brokers required")
	}
	if cfg.MaxRetries < 0 {
		return errors.New(errors.CodeValidation, "max retries must be >= 0")
	}
	return nil
}

//Personal.AI order the ending
