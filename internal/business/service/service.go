package service

import (
	"context"
	"errors"
	"log/slog"

	"workpaper/internal/audit"
	"workpaper/internal/business/models"
	"workpaper/internal/business/store"
	papermodels "workpaper/internal/paper/models"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
	"workpaper/pkg/requestcontext"
)

// PaperStore is the slice of the paper store the cascade needs.
type PaperStore interface {
	ListByBusiness(ctx context.Context, businessID id.BusinessID) ([]*papermodels.Paper, error)
	Execute(ctx context.Context, paperID id.PaperID,
		validate func(*papermodels.Paper) error,
		mutate func(*papermodels.Paper)) (*papermodels.Paper, error)
}

// RoleInvalidator drops cached role sets for identities whose derivable
// roles may have changed.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, identityID id.IdentityID)
}

// Service manages business registrations: registration, verification review,
// and deactivation with its paper cascade.
type Service struct {
	businesses store.Store
	papers     PaperStore
	roles      RoleInvalidator
	publisher  *audit.Publisher
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(businesses store.Store, papers PaperStore, roles RoleInvalidator,
	publisher *audit.Publisher, opts ...Option) *Service {
	s := &Service{
		businesses: businesses,
		papers:     papers,
		roles:      roles,
		publisher:  publisher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput carries the registration request.
type RegisterInput struct {
	RegistrationNumber string
	Name               string
	BusinessType       string
	OwnerIdentityID    id.IdentityID
}

// Register creates a new business registration. The registration number must
// be unique; the store is the source of truth for collisions.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.Business, error) {
	now := requestcontext.Now(ctx)

	business, err := models.NewBusiness(id.NewBusinessID(), input.RegistrationNumber,
		input.Name, input.BusinessType, input.OwnerIdentityID, now)
	if err != nil {
		return nil, err
	}

	if err := s.businesses.CreateIfNumberAvailable(ctx, business); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "registration number is already in use")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist business")
	}

	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: business.OwnerIdentityID,
		Action:   audit.EventBusinessRegistered.String(),
		Outcome:  "success",
	})
	return business, nil
}

// Review records the verification outcome of the registration. A verified
// business starts granting OWNER and can serve as a paper context, so the
// owner's cached roles are invalidated.
func (s *Service) Review(ctx context.Context, businessID id.BusinessID, outcome id.VerificationStatus) (*models.Business, error) {
	if outcome != id.VerificationVerified && outcome != id.VerificationRejected {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "review outcome must be VERIFIED or REJECTED")
	}
	now := requestcontext.Now(ctx)

	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := business.ApplyVerification(outcome, now); err != nil {
		return nil, err
	}
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist business")
	}

	s.roles.Invalidate(ctx, business.OwnerIdentityID)
	return business, nil
}

// Deactivate retires a business registration and cascades: every active
// paper scoped to the business is deactivated, and the derived roles of the
// owner and every affected paper holder are invalidated.
func (s *Service) Deactivate(ctx context.Context, businessID id.BusinessID, reason string) (*models.Business, error) {
	now := requestcontext.Now(ctx)

	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := business.CanDeactivate(); err != nil {
		return nil, err
	}
	business.ApplyDeactivation(now)
	if err := s.businesses.Update(ctx, business); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist business")
	}

	affected := map[id.IdentityID]struct{}{business.OwnerIdentityID: {}}
	papers, err := s.papers.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list papers for cascade")
	}
	for _, p := range papers {
		if !p.Active {
			continue
		}
		deactivated, err := s.papers.Execute(ctx, p.ID,
			func(pp *papermodels.Paper) error { return pp.CanDeactivate() },
			func(pp *papermodels.Paper) { pp.ApplyDeactivation(now) },
		)
		if err != nil {
			// A paper already retired by a concurrent mutation is fine; the
			// cascade moves on so the remaining papers still get retired.
			s.logger.WarnContext(ctx, "cascade paper deactivation failed",
				"paper_id", p.ID, "error", err)
			continue
		}
		affected[deactivated.OwnerIdentityID] = struct{}{}
	}

	for identityID := range affected {
		s.roles.Invalidate(ctx, identityID)
	}

	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: business.OwnerIdentityID,
		Action:   audit.EventBusinessDeactivated.String(),
		Outcome:  "success",
		Reason:   reason,
	})
	return business, nil
}

// Get returns the business by id.
func (s *Service) Get(ctx context.Context, businessID id.BusinessID) (*models.Business, error) {
	return s.businesses.FindByID(ctx, businessID)
}

// ListByOwner returns every business the identity owns.
func (s *Service) ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*models.Business, error) {
	return s.businesses.ListByOwner(ctx, ownerID)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Device = requestcontext.Device(ctx)
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}
