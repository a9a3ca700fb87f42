package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/lanes/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanSubmission scans a single row into a model.Submission.
// The row must contain columns in the order defined by submissionColumns.
func scanSubmission(row scannable) (*model.Submission, error) {
	var sub model.Submission
	var (
		payload []byte
		result  []byte
		errMsg  sql.NullString
	)

	err := row.Scan(
		&sub.ID,
		&sub.Kind,
		&sub.Version,
		&sub.ActorID,
		&payload,
		&sub.Status,
		&result,
		&errMsg,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Error = errMsg.String
	if len(payload) > 0 {
		sub.Payload = json.RawMessage(payload)
	}
	if len(result) > 0 {
		sub.Result = json.RawMessage(result)
	}

	return &sub, nil
}

// scanSubmissionWithTotal scans a row that has a leading total_count column
// followed by the standard submission columns. Used by queryListSubmissions
// with COUNT(*) OVER().
func scanSubmissionWithTotal(row scannable) (*model.Submission, int, error) {
	var total int
	var sub model.Submission
	var (
		payload []byte
		result  []byte
		errMsg  sql.NullString
	)

	err := row.Scan(
		&total,
		&sub.ID,
		&sub.Kind,
		&sub.Version,
		&sub.ActorID,
		&payload,
		&sub.Status,
		&result,
		&errMsg,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, 0, err
	}

	sub.Error = errMsg.String
	if len(payload) > 0 {
		sub.Payload = json.RawMessage(payload)
	}
	if len(result) > 0 {
		sub.Result = json.RawMessage(result)
	}

	return &sub, total, nil
}

// scanAuditEvent scans a single row into a model.AuditEvent.
func scanAuditEvent(row scannable) (*model.AuditEvent, error) {
	var e model.AuditEvent
	var (
		actorID     sql.NullString
		contextJSON []byte
	)
	err := row.Scan(&e.ID, &e.Kind, &e.Action, &actorID, &contextJSON, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.ActorID = actorID.String
	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &e.Context); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

// scanAuditEvents scans multiple rows into a slice of model.AuditEvent pointers.
func scanAuditEvents(rows *sql.Rows) ([]*model.AuditEvent, error) {
	var events []*model.AuditEvent
	for rows.Next() {
		e, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a query argument for JSONB columns.
// Empty messages become an untyped nil so the driver writes SQL NULL rather
// than an empty byte slice.
func jsonbBytes(m json.RawMessage) any {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
