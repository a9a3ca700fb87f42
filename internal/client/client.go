// Package client provides a transport-agnostic interface for the lanes
// service and an HTTP/JSON implementation that talks to the lanes REST API.
package client

import (
	"context"
	"encoding/json"

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/model"
)

// LanesClient is the interface that all lane CLI commands use to communicate
// with the lanes server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type LanesClient interface {
	// Automations
	ListAutomations(ctx context.Context) ([]automation.Descriptor, error)
	GetSchema(ctx context.Context, kind string) (*automation.Descriptor, error)

	// Submissions
	Submit(ctx context.Context, kind string, payload json.RawMessage) (*SubmitResponse, error)
	ListSubmissions(ctx context.Context, kind string, req *ListSubmissionsRequest) (*ListSubmissionsResponse, error)
	GetSubmission(ctx context.Context, kind, id string) (*model.Submission, error)
	Download(ctx context.Context, kind, id string) (*DownloadResponse, error)
	GetSubmissionEvents(ctx context.Context, kind, id string) ([]*model.AuditEvent, error)

	// Catalog
	GetCatalog(ctx context.Context) (*CatalogResponse, error)
	GetNavigation(ctx context.Context) ([]model.Group, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// SubmitResponse is the response from Submit.
type SubmitResponse struct {
	ID     string       `json:"id"`
	Status model.Status `json:"status"`
}

// ListSubmissionsRequest holds parameters for listing submissions.
type ListSubmissionsRequest struct {
	Status  []string `json:"status,omitempty"`
	ActorID string   `json:"actor_id,omitempty"` // superuser only
	Limit   int      `json:"limit,omitempty"`
	Offset  int      `json:"offset,omitempty"`
}

// ListSubmissionsResponse is the response from ListSubmissions.
type ListSubmissionsResponse struct {
	Submissions []*model.Submission `json:"submissions"`
	Total       int                 `json:"total"`
}

// DownloadResponse carries a completed submission's result bytes.
type DownloadResponse struct {
	Data        []byte
	ContentType string
}

// CatalogResponse is the response from GetCatalog.
type CatalogResponse struct {
	Categories []model.Category `json:"categories"`
	Blocks     []model.Block    `json:"blocks"`
}
