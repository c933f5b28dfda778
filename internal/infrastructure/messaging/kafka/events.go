package kafka

import (
	"context"
	"encoding/json"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolViz/pkg/errors"
)

// TopicMoleculeVisualized carries session.VisualizedEvent records.
const TopicMoleculeVisualized = "molviz.molecule.visualized"

// Publisher writes domain events to Kafka.
type Publisher struct {
	producer *Producer
	topic    string
	logger   logging.Logger
}

// NewPublisher creates a Publisher on topic. An empty topic selects
// TopicMoleculeVisualized.
func NewPublisher(producer *Producer, topic string, logger logging.Logger) *Publisher {
	if topic == "" {
		topic = TopicMoleculeVisualized
	}
	return &Publisher{producer: producer, topic: topic, logger: logger}
}

// PublishVisualized publishes ev keyed by its session ID so events of one
// session stay ordered.
func (p *Publisher) PublishVisualized(ctx context.Context, ev *session.VisualizedEvent) error {
	if ev == nil {
		return errors.New(errors.CodeValidation, "event is nil")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode event")
	}
	return p.producer.Publish(ctx, &Message{
		Topic: p.topic,
		Key:   []byte(ev.SessionID),
		Value: payload,
		Headers: map[string]string{
			"event_type": ev.Type,
			"event_id":   ev.ID,
		},
		Time: ev.Timestamp,
	})
}

// Close closes the underlying producer.
func (p *Publisher) Close() error { return p.producer.Close() }

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

// PublishVisualized implements the publisher contract.
func (NopPublisher) PublishVisualized(context.Context, *session.VisualizedEvent) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

//Personal.AI order the ending
