package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alfredjeanlab/lanes/internal/model"
	"github.com/alfredjeanlab/lanes/internal/store"
)

// submissionColumns is the column list used for SELECT statements on the
// submissions table.
const submissionColumns = `id, kind, version, actor_id, payload, status, result, error, created_at, updated_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateSubmission(ctx context.Context, db executor, sub *model.Submission) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO submissions (
			id, kind, version, actor_id, payload, status,
			result, error, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10
		)`,
		sub.ID,
		sub.Kind,
		sub.Version,
		sub.ActorID,
		jsonbBytes(sub.Payload),
		string(sub.Status),
		jsonbBytes(sub.Result),
		nullString(sub.Error),
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	return err
}

func queryGetSubmission(ctx context.Context, db executor, id string) (*model.Submission, error) {
	row := db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func queryListSubmissions(ctx context.Context, db executor, filter model.SubmissionFilter) ([]*model.Submission, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if filter.Kind != "" {
		whereClauses = append(whereClauses, "kind = "+nextArg())
		args = append(args, filter.Kind)
	}

	if filter.ActorID != "" {
		whereClauses = append(whereClauses, "actor_id = "+nextArg())
		args = append(args, filter.ActorID)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	// Most-recent-first is the declared list order.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + submissionColumns +
		" FROM submissions" + whereSQL + " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		subs  []*model.Submission
		total int
	)
	for rows.Next() {
		sub, t, err := scanSubmissionWithTotal(rows)
		if err != nil {
			return nil, 0, err
		}
		total = t
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return subs, total, nil
}

// queryMarkRunning transitions a submission from queued to running. The
// WHERE clause enforces the source state so concurrent or repeated calls
// cannot re-run a submission.
func queryMarkRunning(ctx context.Context, db executor, id string) (*model.Submission, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE submissions
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING `+submissionColumns,
		id, string(model.StatusRunning), time.Now().UTC(), string(model.StatusQueued),
	)
	return scanTransition(ctx, db, id, row)
}

// queryMarkDone transitions a submission from running to done and sets the
// result. The error column stays null.
func queryMarkDone(ctx context.Context, db executor, id string, result json.RawMessage) (*model.Submission, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE submissions
		SET status = $2, result = $3, updated_at = $4
		WHERE id = $1 AND status = $5
		RETURNING `+submissionColumns,
		id, string(model.StatusDone), jsonbBytes(result), time.Now().UTC(), string(model.StatusRunning),
	)
	return scanTransition(ctx, db, id, row)
}

// queryMarkFailed transitions a submission from running to error and sets
// the failure message. The result column stays null.
func queryMarkFailed(ctx context.Context, db executor, id string, message string) (*model.Submission, error) {
	row := db.QueryRowContext(ctx, `
		UPDATE submissions
		SET status = $2, error = $3, updated_at = $4
		WHERE id = $1 AND status = $5
		RETURNING `+submissionColumns,
		id, string(model.StatusError), message, time.Now().UTC(), string(model.StatusRunning),
	)
	return scanTransition(ctx, db, id, row)
}

// scanTransition interprets the result of a conditional transition UPDATE.
// No returned row means either the id does not exist (ErrNotFound) or the
// record was not in the required source state (ErrInvalidTransition).
func scanTransition(ctx context.Context, db executor, id string, row *sql.Row) (*model.Submission, error) {
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := queryGetSubmission(ctx, db, id); getErr != nil {
			return nil, getErr
		}
		return nil, store.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func queryRecordAudit(ctx context.Context, db executor, event *model.AuditEvent) error {
	var contextJSON []byte
	if len(event.Context) > 0 {
		data, err := json.Marshal(event.Context)
		if err != nil {
			return fmt.Errorf("marshal audit context: %w", err)
		}
		contextJSON = data
	}

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return db.QueryRowContext(ctx, `
		INSERT INTO audit_events (kind, action, actor_id, context, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		event.Kind,
		event.Action,
		nullString(event.ActorID),
		contextJSON,
		createdAt,
	).Scan(&event.ID)
}

func queryListAuditEvents(ctx context.Context, db executor, kind, submissionID string) ([]*model.AuditEvent, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if kind != "" {
		whereClauses = append(whereClauses, "kind = "+nextArg())
		args = append(args, kind)
	}
	if submissionID != "" {
		whereClauses = append(whereClauses, "context->>'submission_id' = "+nextArg())
		args = append(args, submissionID)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, kind, action, actor_id, context, created_at FROM audit_events`+
			whereSQL+` ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditEvents(rows)
}
