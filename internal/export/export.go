// Package export periodically snapshots submissions and the audit trail as
// JSONL to external destinations (S3-compatible storage or a local file).
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/lanes/internal/model"
	"github.com/alfredjeanlab/lanes/internal/store"
)

// header is the first JSONL record written by WriteJSONL.
type header struct {
	Version         string    `json:"version"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	SubmissionCount int       `json:"submission_count"`
	AuditCount      int       `json:"audit_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WriteJSONL writes all submissions and audit events from the store as
// JSONL to w. Submissions are sorted by ID for a stable output.
func WriteJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	subs, _, err := s.ListSubmissions(ctx, model.SubmissionFilter{})
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})

	audits, err := s.ListAuditEvents(ctx, "", "")
	if err != nil {
		return fmt.Errorf("list audit events: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:         "1",
		Type:            "header",
		Timestamp:       time.Now().UTC(),
		SubmissionCount: len(subs),
		AuditCount:      len(audits),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, sub := range subs {
		if err := enc.Encode(record{Type: "submission", Data: sub}); err != nil {
			return fmt.Errorf("encode submission %s: %w", sub.ID, err)
		}
	}
	for _, e := range audits {
		if err := enc.Encode(record{Type: "audit", Data: e}); err != nil {
			return fmt.Errorf("encode audit event %d: %w", e.ID, err)
		}
	}

	return nil
}
