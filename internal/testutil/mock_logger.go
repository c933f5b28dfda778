// Package testutil provides shared test helpers for MolViz packages.
package testutil

import (
	"sync"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger and records every entry so tests can
// assert on what was logged. Children created by With and Named share the
// parent's record.
type MockLogger struct {
	sink   *logSink
	name   string
	fields []logging.Field
}

type logSink struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage is a single captured entry. Fields include those inherited via With.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// Field returns the value of the named field and whether it was present.
func (m LogMessage) Field(key string) (interface{}, bool) {
	for i := len(m.Fields) - 1; i >= 0; i-- {
		if m.Fields[i].Key == key {
			return m.Fields[i].Value, true
		}
	}
	return nil, false
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &logSink{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.fields)+len(fields))
	all = append(all, m.fields...)
	all = append(all, fields...)

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = append(m.sink.messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }

// Fatal records the entry at level "fatal" without exiting.
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	child := &MockLogger{sink: m.sink, name: m.name}
	child.fields = append(append([]logging.Field{}, m.fields...), fields...)
	return child
}

func (m *MockLogger) Named(name string) logging.Logger {
	full := name
	if m.name != "" {
		full = m.name + "." + name
	}
	return &MockLogger{sink: m.sink, name: full, fields: m.fields}
}

func (m *MockLogger) Sync() error { return nil }

// GetMessages returns a copy of all captured entries.
func (m *MockLogger) GetMessages() []LogMessage {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	out := make([]LogMessage, len(m.sink.messages))
	copy(out, m.sink.messages)
	return out
}

// Clear drops all captured entries.
func (m *MockLogger) Clear() {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = m.sink.messages[:0]
}

// HasMessage reports whether an entry with level and msg was captured.
func (m *MockLogger) HasMessage(level, msg string) bool {
	_, ok := m.Find(level, msg)
	return ok
}

// Find returns the first entry with level and msg.
func (m *MockLogger) Find(level, msg string) (LogMessage, bool) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	for _, logged := range m.sink.messages {
		if logged.Level == level && logged.Message == msg {
			return logged, true
		}
	}
	return LogMessage{}, false
}

// Count returns the number of entries captured at level.
func (m *MockLogger) Count(level string) int {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	n := 0
	for _, logged := range m.sink.messages {
		if logged.Level == level {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
