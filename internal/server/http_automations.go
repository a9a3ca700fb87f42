package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/events"
	"github.com/alfredjeanlab/lanes/internal/idgen"
	"github.com/alfredjeanlab/lanes/internal/model"
	"github.com/alfredjeanlab/lanes/internal/store"
)

// maxPayloadBytes bounds the submit request body.
const maxPayloadBytes = 1 << 20 // 1 MiB

// handleListAutomations handles GET /v1/automations.
func (s *LanesServer) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"automations": s.registry.Descriptors(),
	})
}

// handleSchema handles GET /v1/automations/{kind}/schema.
func (s *LanesServer) handleSchema(w http.ResponseWriter, r *http.Request) {
	a, ok := s.registry.Get(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown automation kind")
		return
	}
	writeJSON(w, http.StatusOK, a.Descriptor())
}

// handleSubmit handles POST /v1/automations/{kind}/submit. The request body
// is the raw automation payload. On validation failure no submission record
// is created and no audit event is appended.
func (s *LanesServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	kind := r.PathValue("kind")

	a, ok := s.registry.Get(kind)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown automation kind")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(payload) > maxPayloadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if err := a.Validate(payload); err != nil {
		var verr *automation.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "invalid payload",
				"fields": verr.Fields,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s.pool.Full() {
		writeError(w, http.StatusServiceUnavailable, "submission queue full, retry later")
		return
	}

	id, err := idgen.Generate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	sub := &model.Submission{
		ID:        id,
		Kind:      kind,
		Version:   a.Descriptor().Version,
		ActorID:   actor.ID,
		Payload:   payload,
		Status:    model.StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSubmission(r.Context(), sub); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create submission")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicSubmissionCreated, &model.AuditEvent{
		Kind:    kind,
		Action:  model.ActionSubmitted,
		ActorID: actor.ID,
		Context: map[string]string{"submission_id": id},
	}, events.SubmissionCreated{Submission: sub})

	if err := s.pool.Enqueue(id); err != nil {
		// The record stays queued and is picked up by the startup requeue.
		writeError(w, http.StatusServiceUnavailable, "submission queue full, retry later")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"id":     id,
		"status": model.StatusQueued,
	})
}

// handleListSubmissions handles GET /v1/automations/{kind}/submissions.
// Non-superusers only ever see their own submissions; superusers may pass
// ?actor_id= to scope the list or omit it to see everything.
func (s *LanesServer) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	kind := r.PathValue("kind")

	if _, ok := s.registry.Get(kind); !ok {
		writeError(w, http.StatusNotFound, "unknown automation kind")
		return
	}

	q := r.URL.Query()
	filter := model.SubmissionFilter{Kind: kind, ActorID: actor.ID}
	if actor.Superuser {
		filter.ActorID = q.Get("actor_id")
	}
	if v := q.Get("status"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			st := model.Status(strings.TrimSpace(raw))
			if !st.IsValid() {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", raw))
				return
			}
			filter.Status = append(filter.Status, st)
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	subs, total, err := s.store.ListSubmissions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	// Ensure submissions is never null in JSON output.
	if subs == nil {
		subs = []*model.Submission{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
	})
}

// getOwnedSubmission loads a submission and applies the ownership check.
// Unowned submissions are reported identically to missing ones so callers
// cannot probe for ids they do not own.
func (s *LanesServer) getOwnedSubmission(r *http.Request) (*model.Submission, error) {
	actor := actorFrom(r.Context())
	sub, err := s.store.GetSubmission(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if sub.Kind != r.PathValue("kind") || !canAccess(actor, sub.ActorID) {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

// handleGetSubmission handles GET /v1/automations/{kind}/submissions/{id}.
func (s *LanesServer) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.getOwnedSubmission(r)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get submission")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// handleDownload handles GET /v1/automations/{kind}/submissions/{id}/download.
// The result is only downloadable once the submission is done; any other
// state is a conflict, never a partial result.
func (s *LanesServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	sub, err := s.getOwnedSubmission(r)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get submission")
		return
	}
	if sub.Status != model.StatusDone {
		writeError(w, http.StatusConflict, fmt.Sprintf("submission is %s, result not available", sub.Status))
		return
	}

	contentType := "application/json"
	if a, ok := s.registry.Get(sub.Kind); ok {
		if ct := a.Descriptor().ResultContentType; ct != "" {
			contentType = ct
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sub.ID+".json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sub.Result)
}

// handleSubmissionEvents handles GET /v1/automations/{kind}/submissions/{id}/events,
// returning the submission's audit trail. Same ownership rules as get.
func (s *LanesServer) handleSubmissionEvents(w http.ResponseWriter, r *http.Request) {
	sub, err := s.getOwnedSubmission(r)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get submission")
		return
	}

	evts, err := s.store.ListAuditEvents(r.Context(), sub.Kind, sub.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit events")
		return
	}
	if evts == nil {
		evts = []*model.AuditEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": evts})
}
