// Package journal records finished refresh sessions in DuckDB so the host can
// show how long acquisitions take across runs.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SCHEMA SQL
// =============================================================================

const SchemaSQL = `
CREATE SEQUENCE IF NOT EXISTS refresh_session_seq;
CREATE TABLE IF NOT EXISTS refresh_sessions (
  session_id   BIGINT PRIMARY KEY DEFAULT nextval('refresh_session_seq'),
  started_at   TIMESTAMP NOT NULL,
  finished_at  TIMESTAMP NOT NULL,
  acquire_ms   BIGINT NOT NULL,
  item_count   INTEGER NOT NULL,
  failed_count INTEGER NOT NULL,
  cancelled    BOOLEAN NOT NULL,
  error        VARCHAR
);
`

// =============================================================================
// MODELS
// =============================================================================

// Session is one acquire/load cycle as seen by the host.
type Session struct {
	ID         int64
	StartedAt  time.Time // OnAcquireData
	FinishedAt time.Time // OnLoadData
	Acquire    time.Duration
	Items      int
	Failed     int
	Cancelled  bool // the user dragged out of the armed zone first
	Error      string
}

// Summary aggregates all recorded sessions.
type Summary struct {
	Count       int
	AvgAcquire  time.Duration
	LastFinish  time.Time
	Cancelled   int
	WithFailure int
}

// ErrInvalidSession is returned for sessions that end before they start.
var ErrInvalidSession = errors.New("session finishes before it starts")

// =============================================================================
// REPO IMPLEMENTATION
// =============================================================================

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, SchemaSQL)
	return err
}

// Record appends a session and returns its id.
func (r *Repo) Record(ctx context.Context, s Session) (int64, error) {
	if s.FinishedAt.Before(s.StartedAt) {
		return 0, ErrInvalidSession
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO refresh_sessions
			(started_at, finished_at, acquire_ms, item_count, failed_count, cancelled, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING session_id`,
		s.StartedAt.UTC(),
		s.FinishedAt.UTC(),
		s.Acquire.Milliseconds(),
		s.Items,
		s.Failed,
		s.Cancelled,
		nullStr(s.Error),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert session failed: %w", err)
	}
	return id, nil
}

// Recent returns the newest sessions first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100 // Safety limit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, started_at, finished_at, acquire_ms,
		       item_count, failed_count, cancelled, error
		FROM refresh_sessions
		ORDER BY session_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions failed: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var s Session
		var acquireMS int64
		var errText sql.NullString
		if err := rows.Scan(
			&s.ID,
			&s.StartedAt,
			&s.FinishedAt,
			&acquireMS,
			&s.Items,
			&s.Failed,
			&s.Cancelled,
			&errText,
		); err != nil {
			return nil, fmt.Errorf("scan session failed: %w", err)
		}
		s.Acquire = time.Duration(acquireMS) * time.Millisecond
		s.Error = errText.String
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return sessions, nil
}

// Summary aggregates every recorded session.
func (r *Repo) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	var avgMS float64
	var last sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(AVG(acquire_ms), 0),
			MAX(finished_at),
			COUNT(*) FILTER (WHERE cancelled),
			COUNT(*) FILTER (WHERE failed_count > 0 OR error IS NOT NULL)
		FROM refresh_sessions`).Scan(&sum.Count, &avgMS, &last, &sum.Cancelled, &sum.WithFailure)
	if err != nil {
		return Summary{}, fmt.Errorf("summary query failed: %w", err)
	}
	sum.AvgAcquire = time.Duration(avgMS * float64(time.Millisecond))
	if last.Valid {
		sum.LastFinish = last.Time
	}
	return sum, nil
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
