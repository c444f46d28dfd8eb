package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"workpaper/internal/identity/models"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/sentinel"
)

// Postgres persists identities with pgx. Execute maps the per-identity lock
// onto SELECT ... FOR UPDATE NOWAIT inside a transaction: a concurrent holder
// surfaces as sentinel.ErrConflict instead of blocking the batch.
//
// Schema:
//
//	CREATE TABLE identities (
//	    id                 UUID PRIMARY KEY,
//	    id_type            TEXT NOT NULL,
//	    display_name       TEXT NOT NULL,
//	    verification       TEXT NOT NULL,
//	    status             TEXT NOT NULL,
//	    protected          BOOLEAN NOT NULL DEFAULT FALSE,
//	    linked_personal_id UUID,
//	    created_at         TIMESTAMPTZ NOT NULL,
//	    updated_at         TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const identityColumns = `id, id_type, display_name, verification, status, protected, linked_personal_id, created_at, updated_at`

func (s *Postgres) Create(ctx context.Context, identity *models.Identity) error {
	const q = `
		INSERT INTO identities (` + identityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, q,
		identity.ID.UUID(),
		string(identity.Type),
		identity.DisplayName,
		string(identity.Verification),
		string(identity.Status),
		identity.Protected,
		linkedUUID(identity.LinkedPersonalID),
		identity.CreatedAt,
		identity.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create identity: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, identityID id.IdentityID) (*models.Identity, error) {
	const q = `SELECT ` + identityColumns + ` FROM identities WHERE id = $1`
	row := s.pool.QueryRow(ctx, q, identityID.UUID())
	return scanIdentity(row)
}

func (s *Postgres) Update(ctx context.Context, identity *models.Identity) error {
	const q = `
		UPDATE identities
		SET id_type = $2, display_name = $3, verification = $4, status = $5,
		    protected = $6, linked_personal_id = $7, updated_at = $8
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q,
		identity.ID.UUID(),
		string(identity.Type),
		identity.DisplayName,
		string(identity.Verification),
		string(identity.Status),
		identity.Protected,
		linkedUUID(identity.LinkedPersonalID),
		identity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Execute(ctx context.Context, identityID id.IdentityID,
	validate func(*models.Identity) error,
	mutate func(*models.Identity)) (*models.Identity, error) {

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", sentinel.ErrTxFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `SELECT ` + identityColumns + ` FROM identities WHERE id = $1 FOR UPDATE NOWAIT`
	identity, err := scanIdentity(tx.QueryRow(ctx, q, identityID.UUID()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "55P03" { // lock_not_available
			return nil, sentinel.ErrConflict
		}
		return nil, err
	}

	if err := validate(identity); err != nil {
		return nil, err
	}
	mutate(identity)

	const upd = `
		UPDATE identities
		SET id_type = $2, display_name = $3, verification = $4, status = $5,
		    protected = $6, linked_personal_id = $7, updated_at = $8
		WHERE id = $1
	`
	if _, err := tx.Exec(ctx, upd,
		identity.ID.UUID(),
		string(identity.Type),
		identity.DisplayName,
		string(identity.Verification),
		string(identity.Status),
		identity.Protected,
		linkedUUID(identity.LinkedPersonalID),
		identity.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("%w: update: %v", sentinel.ErrTxFailed, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", sentinel.ErrTxFailed, err)
	}
	return identity, nil
}

func linkedUUID(linked *id.IdentityID) any {
	if linked == nil {
		return nil
	}
	return linked.UUID()
}

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	var (
		identity models.Identity
		idRaw    uuid.UUID
		idType   string
		verif    string
		status   string
		linked   *uuid.UUID
	)
	err := row.Scan(&idRaw, &idType, &identity.DisplayName, &verif, &status,
		&identity.Protected, &linked, &identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	identity.ID = id.IdentityID(idRaw)
	identity.Type = id.IdentityType(idType)
	identity.Verification = id.VerificationStatus(verif)
	identity.Status = models.IdentityStatus(status)
	if linked != nil {
		l := id.IdentityID(*linked)
		identity.LinkedPersonalID = &l
	}
	return &identity, nil
}
