package model

import (
	"encoding/json"
	"time"
)

// Status represents the lifecycle state of a submission.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusError:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step: queued -> running -> {done | error}.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusQueued:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusDone || next == StatusError
	}
	return false
}

// Submission is one user-initiated invocation of an automation and its
// tracked outcome. ID, Kind, Version, and ActorID are immutable after
// creation; Result and Error are mutually exclusive and both empty while
// the status is non-terminal.
type Submission struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Version   string          `json:"version"`
	ActorID   string          `json:"actor_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Status    Status          `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
