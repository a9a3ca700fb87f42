package events

import (
	"context"

	"github.com/alfredjeanlab/lanes/internal/model"
)

// Event topic constants
const (
	TopicSubmissionCreated   = "lanes.submission.created"
	TopicSubmissionCompleted = "lanes.submission.completed"
	TopicSubmissionFailed    = "lanes.submission.failed"

	// Catalog events
	TopicCatalogReloaded = "lanes.catalog.reloaded"
)

// Event types

type SubmissionCreated struct {
	Submission *model.Submission `json:"submission"`
}

type SubmissionCompleted struct {
	Submission *model.Submission `json:"submission"`
}

type SubmissionFailed struct {
	Submission *model.Submission `json:"submission"`
	Reason     string            `json:"reason"`
}

type CatalogReloaded struct {
	Categories int `json:"categories"`
	Blocks     int `json:"blocks"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
