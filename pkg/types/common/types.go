// Package common holds the plain data types shared by every MolViz layer:
// identifiers, the JSON response envelope, health reporting and event headers.
package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for a UUID v4.
type ID string

// Validate checks that the ID is a well-formed UUID.
func (id ID) Validate() error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return fmt.Errorf("invalid ID format: %w", err)
	}
	return nil
}

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// ErrorDetail is the error block of an API response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// APIResponse is the envelope of every JSON API response.
type APIResponse[T any] struct {
	Success   bool         `json:"success"`
	Data      T            `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse wraps data in a successful envelope.
func NewSuccessResponse[T any](data T) APIResponse[T] {
	return APIResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse builds a failed envelope.
func NewErrorResponse(code, message string) APIResponse[any] {
	return APIResponse[any]{
		Success:   false,
		Error:     &ErrorDetail{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	}
}

// HealthStatus indicates the health of a component or service.
type HealthStatus string

const (
	HealthUp       HealthStatus = "up"
	HealthDown     HealthStatus = "down"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth reports the health of a single dependency.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Status  HealthStatus  `json:"status"`
	Latency time.Duration `json:"latency"`
	Message string        `json:"message,omitempty"`
}

// BaseEvent carries the header fields common to published events.
type BaseEvent struct {
	ID        string    `json:"event_id"`
	Type      string    `json:"event_type"`
	Timestamp time.Time `json:"occurred_at"`
	AggID     string    `json:"aggregate_id"`
}

// NewBaseEvent stamps a new event header for the given aggregate.
func NewBaseEvent(eventType, aggID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
	}
}

// ContextKey is the type of request-context keys set by middleware.
type ContextKey string

const (
	// ContextKeyRequestID holds the request correlation ID.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeySessionID holds the visualization session ID.
	ContextKeySessionID ContextKey = "session_id"
)

//Personal.AI order the ending
