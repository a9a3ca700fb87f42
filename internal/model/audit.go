package model

import "time"

// Audit actions recorded for submission lifecycle steps.
const (
	ActionSubmitted = "submitted"
	ActionCompleted = "completed"
	ActionFailed    = "failed"
)

// AuditEvent is an append-only record of a lifecycle action. Events are
// never mutated or deleted.
type AuditEvent struct {
	ID        int64             `json:"id"`
	Kind      string            `json:"kind"`
	Action    string            `json:"action"`
	ActorID   string            `json:"actor_id,omitempty"`
	Context   map[string]string `json:"context,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
