// Package server exposes the automation platform over HTTP: the fixed
// per-automation endpoint contract, catalog reads, and health.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/catalog"
	"github.com/alfredjeanlab/lanes/internal/events"
	"github.com/alfredjeanlab/lanes/internal/model"
	"github.com/alfredjeanlab/lanes/internal/store"
	"github.com/alfredjeanlab/lanes/internal/worker"
)

// LanesServer holds the wired platform components behind the HTTP handlers.
type LanesServer struct {
	store     store.Store
	publisher events.Publisher
	registry  *automation.Registry
	catalog   *catalog.Snapshot
	pool      *worker.Pool
}

// NewLanesServer returns a server backed by the given components.
func NewLanesServer(s store.Store, p events.Publisher, reg *automation.Registry, cat *catalog.Snapshot, pool *worker.Pool) *LanesServer {
	return &LanesServer{
		store:     s,
		publisher: p,
		registry:  reg,
		catalog:   cat,
		pool:      pool,
	}
}

// recordAndPublish persists an audit event and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *LanesServer) recordAndPublish(ctx context.Context, topic string, audit *model.AuditEvent, event any) {
	if err := s.store.RecordAudit(ctx, audit); err != nil {
		slog.Warn("failed to record audit event", "topic", topic, "action", audit.Action, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
