package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"workpaper/internal/business/models"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/sentinel"
)

// Postgres persists business registrations with pgx.
//
// Schema:
//
//	CREATE TABLE businesses (
//	    id                  UUID PRIMARY KEY,
//	    registration_number TEXT NOT NULL UNIQUE,
//	    name                TEXT NOT NULL,
//	    business_type       TEXT NOT NULL,
//	    owner_identity_id   UUID NOT NULL,
//	    verification        TEXT NOT NULL,
//	    active              BOOLEAN NOT NULL,
//	    created_at          TIMESTAMPTZ NOT NULL,
//	    updated_at          TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX businesses_owner_idx ON businesses (owner_identity_id);
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const businessColumns = `id, registration_number, name, business_type, owner_identity_id, verification, active, created_at, updated_at`

func (s *Postgres) CreateIfNumberAvailable(ctx context.Context, business *models.Business) error {
	const q = `
		INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.pool.Exec(ctx, q,
		business.ID.UUID(),
		business.RegistrationNumber,
		business.Name,
		business.BusinessType,
		business.OwnerIdentityID.UUID(),
		string(business.Verification),
		business.Active,
		business.CreatedAt,
		business.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create business: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, businessID id.BusinessID) (*models.Business, error) {
	const q = `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	return scanBusiness(s.pool.QueryRow(ctx, q, businessID.UUID()))
}

func (s *Postgres) ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*models.Business, error) {
	const q = `SELECT ` + businessColumns + ` FROM businesses WHERE owner_identity_id = $1`
	rows, err := s.pool.Query(ctx, q, ownerID.UUID())
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}
	defer rows.Close()

	var out []*models.Business
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Postgres) Update(ctx context.Context, business *models.Business) error {
	const q = `
		UPDATE businesses
		SET name = $2, business_type = $3, verification = $4, active = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, q,
		business.ID.UUID(),
		business.Name,
		business.BusinessType,
		string(business.Verification),
		business.Active,
		business.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanBusiness(row pgx.Row) (*models.Business, error) {
	var (
		b      models.Business
		bID    uuid.UUID
		owner  uuid.UUID
		verif  string
	)
	err := row.Scan(&bID, &b.RegistrationNumber, &b.Name, &b.BusinessType, &owner, &verif, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}
	b.ID = id.BusinessID(bID)
	b.OwnerIdentityID = id.IdentityID(owner)
	b.Verification = id.VerificationStatus(verif)
	return &b, nil
}
