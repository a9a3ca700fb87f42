package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/alfredjeanlab/lanes/internal/model"
)

// ErrNotFound is returned when a submission id does not exist.
var ErrNotFound = errors.New("submission not found")

// ErrInvalidTransition is returned when a status transition is attempted
// from a state that does not permit it (including terminal states).
var ErrInvalidTransition = errors.New("invalid status transition")

// Store defines the persistence interface for submissions and the audit
// trail. Submissions are never deleted; audit events are append-only.
type Store interface {
	// Submissions
	CreateSubmission(ctx context.Context, sub *model.Submission) error
	GetSubmission(ctx context.Context, id string) (*model.Submission, error)
	ListSubmissions(ctx context.Context, filter model.SubmissionFilter) ([]*model.Submission, int, error) // returns submissions, total count, error

	// Lifecycle transitions. Each succeeds only from its required source
	// state (MarkRunning from queued, MarkDone/MarkFailed from running)
	// and returns ErrInvalidTransition otherwise, so a terminal record can
	// never be overwritten.
	MarkRunning(ctx context.Context, id string) (*model.Submission, error)
	MarkDone(ctx context.Context, id string, result json.RawMessage) (*model.Submission, error)
	MarkFailed(ctx context.Context, id string, message string) (*model.Submission, error)

	// Audit trail
	RecordAudit(ctx context.Context, event *model.AuditEvent) error
	ListAuditEvents(ctx context.Context, kind, submissionID string) ([]*model.AuditEvent, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
