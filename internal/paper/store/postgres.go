package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"workpaper/internal/paper/models"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/sentinel"
)

// Postgres persists papers with pgx; the type-specific payload is stored as
// JSONB. Execute uses SELECT ... FOR UPDATE NOWAIT like the identity store.
//
// Schema:
//
//	CREATE TABLE papers (
//	    id                  UUID PRIMARY KEY,
//	    paper_type          TEXT NOT NULL,
//	    owner_identity_id   UUID NOT NULL,
//	    related_business_id UUID,
//	    payload             JSONB NOT NULL,
//	    valid_from          TIMESTAMPTZ NOT NULL,
//	    valid_until         TIMESTAMPTZ,
//	    active              BOOLEAN NOT NULL,
//	    verification        TEXT NOT NULL,
//	    created_at          TIMESTAMPTZ NOT NULL,
//	    updated_at          TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX papers_owner_idx ON papers (owner_identity_id);
//	CREATE INDEX papers_business_idx ON papers (related_business_id);
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const paperColumns = `id, paper_type, owner_identity_id, related_business_id, payload, valid_from, valid_until, active, verification, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, paper *models.Paper) error {
	payload, err := json.Marshal(paper.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	const q = `
		INSERT INTO papers (` + paperColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.pool.Exec(ctx, q,
		paper.ID.UUID(),
		string(paper.Type),
		paper.OwnerIdentityID.UUID(),
		businessUUID(paper.RelatedBusinessID),
		payload,
		paper.ValidFrom,
		paper.ValidUntil,
		paper.Active,
		string(paper.Verification),
		paper.CreatedAt,
		paper.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create paper: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, paperID id.PaperID) (*models.Paper, error) {
	const q = `SELECT ` + paperColumns + ` FROM papers WHERE id = $1`
	return scanPaper(s.pool.QueryRow(ctx, q, paperID.UUID()))
}

func (s *Postgres) ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*models.Paper, error) {
	const q = `SELECT ` + paperColumns + ` FROM papers WHERE owner_identity_id = $1`
	return s.list(ctx, q, ownerID.UUID())
}

func (s *Postgres) ListByBusiness(ctx context.Context, businessID id.BusinessID) ([]*models.Paper, error) {
	const q = `SELECT ` + paperColumns + ` FROM papers WHERE related_business_id = $1`
	return s.list(ctx, q, businessID.UUID())
}

func (s *Postgres) list(ctx context.Context, q string, arg any) ([]*models.Paper, error) {
	rows, err := s.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer rows.Close()

	var out []*models.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) Execute(ctx context.Context, paperID id.PaperID,
	validate func(*models.Paper) error,
	mutate func(*models.Paper)) (*models.Paper, error) {

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", sentinel.ErrTxFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `SELECT ` + paperColumns + ` FROM papers WHERE id = $1 FOR UPDATE NOWAIT`
	paper, err := scanPaper(tx.QueryRow(ctx, q, paperID.UUID()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "55P03" {
			return nil, sentinel.ErrConflict
		}
		return nil, err
	}

	if err := validate(paper); err != nil {
		return nil, err
	}
	mutate(paper)

	payload, err := json.Marshal(paper.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	const upd = `
		UPDATE papers
		SET payload = $2, valid_from = $3, valid_until = $4, active = $5,
		    verification = $6, updated_at = $7
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, upd,
		paper.ID.UUID(),
		payload,
		paper.ValidFrom,
		paper.ValidUntil,
		paper.Active,
		string(paper.Verification),
		paper.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: update: %v", sentinel.ErrTxFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", sentinel.ErrTxFailed, err)
	}
	return paper, nil
}

func businessUUID(businessID *id.BusinessID) any {
	if businessID == nil {
		return nil
	}
	return businessID.UUID()
}

func scanPaper(row pgx.Row) (*models.Paper, error) {
	var (
		p          models.Paper
		pID        uuid.UUID
		paperType  string
		owner      uuid.UUID
		business   *uuid.UUID
		payload    []byte
		validUntil *time.Time
		verif      string
	)
	err := row.Scan(&pID, &paperType, &owner, &business, &payload, &p.ValidFrom,
		&validUntil, &p.Active, &verif, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan paper: %w", err)
	}
	if err := json.Unmarshal(payload, &p.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal payload: %w", err)
	}
	p.ID = id.PaperID(pID)
	p.Type = id.PaperType(paperType)
	p.OwnerIdentityID = id.IdentityID(owner)
	if business != nil {
		b := id.BusinessID(*business)
		p.RelatedBusinessID = &b
	}
	p.ValidUntil = validUntil
	p.Verification = id.VerificationStatus(verif)
	return &p, nil
}
