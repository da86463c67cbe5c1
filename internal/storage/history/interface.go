package history

import (
	"context"
	"time"
)

// Entry is one recorded user or scheduler action.
type Entry struct {
	ID      string    `json:"id"`
	Action  string    `json:"action"`
	Status  string    `json:"status"`
	Details string    `json:"details"`
	Source  string    `json:"source,omitempty"`
	At      time.Time `json:"at"`
}

// Store defines the interface for action history persistence.
type Store interface {
	// Record persists an entry and assigns its ID and timestamp.
	Record(ctx context.Context, entry Entry) (Entry, error)

	// List returns entries matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]Entry, error)

	// Count returns the number of entries matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter defines criteria for listing entries.
type ListFilter struct {
	Action string
	Status string
	Since  time.Time
	Limit  int
}
