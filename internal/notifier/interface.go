package notifier

import (
	"context"
	"time"
)

// Event describes a completed dashboard action.
type Event struct {
	Type    string    `json:"type"`
	Action  string    `json:"action"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// EventTypeAction is the event type for train and predict outcomes.
const EventTypeAction = "action"

// Notifier defines the interface for action notification
type Notifier interface {
	// Name returns the unique identifier for this notifier
	Name() string

	// Send delivers a single event
	Send(ctx context.Context, event Event) error
}
