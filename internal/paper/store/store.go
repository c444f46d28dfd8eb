package store

import (
	"context"

	"workpaper/internal/paper/models"
	id "workpaper/pkg/domain"
)

// Store is the persistence surface for papers. Query methods return
// snapshots; lifecycle mutations go through Execute so the per-paper lock
// covers validate-then-mutate.
type Store interface {
	Create(ctx context.Context, paper *models.Paper) error
	FindByID(ctx context.Context, paperID id.PaperID) (*models.Paper, error)
	// ListByOwner returns every paper owned by the identity, including
	// inactive and expired ones; callers filter by qualification.
	ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*models.Paper, error)
	// ListByBusiness returns every paper scoped to the business context.
	ListByBusiness(ctx context.Context, businessID id.BusinessID) ([]*models.Paper, error)

	// Execute runs validate then mutate under the paper's lock and persists
	// the result. sentinel.ErrNotFound when absent; sentinel.ErrConflict on
	// lock contention.
	Execute(ctx context.Context, paperID id.PaperID,
		validate func(*models.Paper) error,
		mutate func(*models.Paper)) (*models.Paper, error)
}
