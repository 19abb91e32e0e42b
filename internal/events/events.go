package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the flash manager and the quiz engine.
const (
	TypeFlashShown     = "flash.shown"
	TypeFlashDismissed = "flash.dismissed"
	TypeFlashRemoved   = "flash.removed"

	TypeQuizLoaded     = "quiz.loaded"
	TypeQuizLoadFailed = "quiz.load_failed"
	TypeQuizAnswered   = "quiz.answered"
	TypeQuizCompleted  = "quiz.completed"
	TypeQuizRestarted  = "quiz.restarted"
)

// Event records a lifecycle transition of a notification or a quiz session.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Subject identifies the entity that transitioned: a notification ID or a
	// quiz container ID
	Subject string `json:"subject"`

	// Payload contains type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type, subject and payload.
// A nil payload produces an event without a payload.
func NewEvent(eventType, subject string, payload interface{}) (*Event, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Subject:   subject,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the core components to publish transitions without knowing
// who observes them.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *Event) error
}
