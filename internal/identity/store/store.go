package store

import (
	"context"

	"workpaper/internal/identity/models"
	id "workpaper/pkg/domain"
)

// Store is the persistence surface for identities.
//
// Execute is the per-identity isolation primitive: the implementation holds
// the record's lock (a per-record mutex in memory, SELECT ... FOR UPDATE in
// Postgres) across both callbacks, so validate-then-mutate is atomic with
// respect to any other mutation of the same identity. Mutations against
// different identities proceed in parallel.
type Store interface {
	Create(ctx context.Context, identity *models.Identity) error
	FindByID(ctx context.Context, identityID id.IdentityID) (*models.Identity, error)
	Update(ctx context.Context, identity *models.Identity) error

	// Execute runs validate then mutate under the identity's lock and
	// persists the result. Returns the mutated identity snapshot. A validate
	// error aborts without mutating. sentinel.ErrNotFound when the identity
	// does not exist; sentinel.ErrConflict when the lock cannot be acquired
	// within the context deadline.
	Execute(ctx context.Context, identityID id.IdentityID,
		validate func(*models.Identity) error,
		mutate func(*models.Identity)) (*models.Identity, error)
}
