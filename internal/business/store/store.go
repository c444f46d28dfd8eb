package store

import (
	"context"

	"workpaper/internal/business/models"
	id "workpaper/pkg/domain"
)

// Store is the persistence surface for business registrations.
type Store interface {
	// CreateIfNumberAvailable enforces registration-number uniqueness;
	// returns sentinel.ErrAlreadyUsed-style conflict when taken.
	CreateIfNumberAvailable(ctx context.Context, business *models.Business) error
	FindByID(ctx context.Context, businessID id.BusinessID) (*models.Business, error)
	ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*models.Business, error)
	Update(ctx context.Context, business *models.Business) error
}
