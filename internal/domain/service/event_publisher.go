package service

import (
	"context"
	"time"
)

// MigrationCompletedEvent is published once a migration run has finished.
type MigrationCompletedEvent struct {
	RequestID   string    `json:"request_id,omitempty"` // For distributed tracing
	MigrationID string    `json:"migration_id"`
	Direction   string    `json:"direction"`
	Status      string    `json:"status"`
	EntityTypes []string  `json:"entity_types"`
	Processed   int64     `json:"processed"`
	Errors      int64     `json:"errors"`
	Cancelled   bool      `json:"cancelled,omitempty"`
	Validation  string    `json:"validation,omitempty"` // Overall verdict when validation ran
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Summary     string    `json:"summary"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishMigrationCompleted announces the outcome of a migration run
	PublishMigrationCompleted(ctx context.Context, event *MigrationCompletedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
