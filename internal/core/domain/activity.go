package domain

import (
	"encoding/json"
	"time"
)

const (
	EventRecordCreated = "record.created"
	EventRecordDeleted = "record.deleted"
)

// ActivityEvent is an outbox entry describing a change to a record.
type ActivityEvent struct {
	ID          string          `json:"id" db:"id"`
	EventType   string          `json:"event_type" db:"event_type"`
	Kind        Kind            `json:"kind" db:"kind"`
	RecordID    string          `json:"record_id" db:"record_id"`
	OwnerID     string          `json:"owner_id" db:"owner_id"`
	Payload     json.RawMessage `json:"payload" db:"payload"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty" db:"processed_at"`
}
