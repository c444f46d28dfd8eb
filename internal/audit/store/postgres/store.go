package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"workpaper/internal/audit"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/tx"
)

// Store persists audit events in PostgreSQL via database/sql. The table is
// append-only; the retention and downstream routing per category live outside
// this core.
//
// Schema:
//
//	CREATE TABLE audit_events (
//	    id         UUID PRIMARY KEY,
//	    category   TEXT NOT NULL,
//	    occurred_at TIMESTAMPTZ NOT NULL,
//	    actor_id   UUID NOT NULL,
//	    target_id  UUID,
//	    target_ids UUID[],
//	    paper_id   UUID,
//	    action     TEXT NOT NULL,
//	    outcome    TEXT NOT NULL,
//	    reason     TEXT,
//	    request_id TEXT,
//	    device     TEXT
//	);
//	CREATE INDEX audit_events_actor_idx ON audit_events (actor_id, occurred_at);
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// executor returns the context transaction when a caller is batching the
// audit append with its own writes, and the pool otherwise.
func (s *Store) executor(ctx context.Context) execer {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	var targetID any
	if !event.TargetID.IsNil() {
		targetID = event.TargetID.UUID()
	}
	var paperID any
	if !event.PaperID.IsNil() {
		paperID = event.PaperID.UUID()
	}
	targetIDs := make([]uuid.UUID, 0, len(event.TargetIDs))
	for _, t := range event.TargetIDs {
		targetIDs = append(targetIDs, t.UUID())
	}

	const q = `
		INSERT INTO audit_events
			(id, category, occurred_at, actor_id, target_id, target_ids, paper_id, action, outcome, reason, request_id, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.executor(ctx).ExecContext(ctx, q,
		uuid.New(),
		string(event.Category),
		event.Timestamp,
		event.ActorID.UUID(),
		targetID,
		pq.Array(targetIDs),
		paperID,
		event.Action,
		event.Outcome,
		event.Reason,
		event.RequestID,
		event.Device,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByActor(ctx context.Context, actorID id.IdentityID) ([]audit.Event, error) {
	const q = `
		SELECT category, occurred_at, actor_id, target_id, paper_id, action, outcome, reason, request_id, device
		FROM audit_events
		WHERE actor_id = $1
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, q, actorID.UUID())
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var out []audit.Event
	for rows.Next() {
		var (
			e        audit.Event
			category string
			actor    uuid.UUID
			target   uuid.NullUUID
			paper    uuid.NullUUID
			reason   sql.NullString
			reqID    sql.NullString
			device   sql.NullString
		)
		if err := rows.Scan(&category, &e.Timestamp, &actor, &target, &paper, &e.Action, &e.Outcome, &reason, &reqID, &device); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		e.ActorID = id.IdentityID(actor)
		if target.Valid {
			e.TargetID = id.IdentityID(target.UUID)
		}
		if paper.Valid {
			e.PaperID = id.PaperID(paper.UUID)
		}
		e.Reason = reason.String
		e.RequestID = reqID.String
		e.Device = device.String
		out = append(out, e)
	}
	return out, rows.Err()
}
