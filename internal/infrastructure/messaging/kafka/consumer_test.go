package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolViz/internal/domain/session"
	"github.com/turtacn/MolViz/internal/testutil"
	"github.com/turtacn/MolViz/pkg/errors"
)

type mockKafkaReader struct {
	queue     []kafka.Message
	committed []kafka.Message
	fetchErr  error
	cancel    context.CancelFunc
}

func (m *mockKafkaReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(m.queue) == 0 {
		if m.fetchErr != nil {
			return kafka.Message{}, m.fetchErr
		}
		m.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := m.queue[0]
	m.queue = m.queue[1:]
	return msg, nil
}

func (m *mockKafkaReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	m.committed = append(m.committed, msgs...)
	return nil
}

func (m *mockKafkaReader) Close() error { return nil }

func eventMessage(t *testing.T, ev *session.VisualizedEvent) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Topic: TopicMoleculeVisualized, Value: b}
}

func TestConsumer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := testutil.NewMockLogger()
	r := &mockKafkaReader{cancel: cancel, queue: []kafka.Message{
		eventMessage(t, session.NewVisualizedEvent("a", "CCO", "C2H6O", 9, 3)),
		{Topic: TopicMoleculeVisualized, Offset: 7, Value: []byte("{not json")},
		eventMessage(t, session.NewVisualizedEvent("b", "C", "CH4", 5, 1)),
	}}
	c := newConsumerWithReader(r, log)

	var seen []string
	err := c.Run(ctx, func(_ context.Context, ev *session.VisualizedEvent) error {
		seen = append(seen, ev.SessionID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Len(t, r.committed, 3)
	assert.True(t, log.HasMessage("warn", "Skipping undecodable event"))
}

func TestConsumer_HandlerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &mockKafkaReader{cancel: cancel, queue: []kafka.Message{
		eventMessage(t, session.NewVisualizedEvent("a", "CCO", "C2H6O", 9, 3)),
	}}
	c := newConsumerWithReader(r, testutil.NewMockLogger())

	boom := stderrors.New("boom")
	err := c.Run(ctx, func(context.Context, *session.VisualizedEvent) error { return boom })
	assert.Equal(t, boom, err)
	assert.Empty(t, r.committed)
}

func TestConsumer_FetchError(t *testing.T) {
	r := &mockKafkaReader{fetchErr: stderrors.New("broken"), cancel: func() {}}
	c := newConsumerWithReader(r, testutil.NewMockLogger())
	err := c.Run(context.Background(), func(context.Context, *session.VisualizedEvent) error { return nil })
	assert.True(t, errors.IsCode(err, errors.CodeServiceUnavailable))
}

func TestNewConsumer_Validation(t *testing.T) {
	_, err := NewConsumer(ConsumerConfig{GroupID: "g"}, testutil.NewMockLogger())
	assert.Error(t, err)
	_, err = NewConsumer(ConsumerConfig{Brokers: []string{"b"}}, testutil.NewMockLogger())
	assert.Error(t, err)

	c, err := NewConsumer(ConsumerConfig{Brokers: []string{"localhost:9092"}, GroupID: "g"}, testutil.NewMockLogger())
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

//Personal.AI order the ending
