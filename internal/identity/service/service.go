package service

import (
	"context"
	"log/slog"

	"workpaper/internal/audit"
	"workpaper/internal/identity/models"
	"workpaper/internal/identity/store"
	id "workpaper/pkg/domain"
	"workpaper/pkg/requestcontext"
)

// RoleInvalidator drops cached role sets.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, identityID id.IdentityID)
}

// Service manages identity lifecycle transitions. Each transition runs
// validate-then-mutate under the store's per-identity lock, emits an audit
// event, and invalidates the target's cached roles.
type Service struct {
	identities store.Store
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

func New(identities store.Store, roles RoleInvalidator, publisher *audit.Publisher, opts ...Option) *Service {
	s := &Service{
		identities: identities,
		roles:      roles,
		publisher:  publisher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new identity.
func (s *Service) Create(ctx context.Context, idType id.IdentityType, displayName string) (*models.Identity, error) {
	identity, err := models.NewIdentity(id.NewIdentityID(), idType, displayName, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Get returns the identity by id.
func (s *Service) Get(ctx context.Context, identityID id.IdentityID) (*models.Identity, error) {
	return s.identities.FindByID(ctx, identityID)
}

// Suspend moves an active identity into the suspended state. Suspension is
// reversible; it blocks logins and mutations but keeps papers intact.
func (s *Service) Suspend(ctx context.Context, identityID id.IdentityID, reason string) (*models.Identity, error) {
	now := requestcontext.Now(ctx)
	identity, err := s.identities.Execute(ctx, identityID,
		func(i *models.Identity) error { return i.CanSuspend() },
		func(i *models.Identity) { i.ApplySuspension(now) },
	)
	if err != nil {
		return nil, err
	}
	s.finish(ctx, identityID, audit.EventIdentitySuspended, reason)
	return identity, nil
}

// Reactivate reverses a suspension.
func (s *Service) Reactivate(ctx context.Context, identityID id.IdentityID, reason string) (*models.Identity, error) {
	now := requestcontext.Now(ctx)
	identity, err := s.identities.Execute(ctx, identityID,
		func(i *models.Identity) error { return i.CanReactivate() },
		func(i *models.Identity) { i.ApplyReactivation(now) },
	)
	if err != nil {
		return nil, err
	}
	s.finish(ctx, identityID, audit.EventIdentityReactivated, reason)
	return identity, nil
}

// Deactivate moves the identity into its terminal state. The record is kept
// for audit history; it is never hard-deleted while papers reference it.
func (s *Service) Deactivate(ctx context.Context, identityID id.IdentityID, reason string) (*models.Identity, error) {
	now := requestcontext.Now(ctx)
	identity, err := s.identities.Execute(ctx, identityID,
		func(i *models.Identity) error { return i.CanDeactivate() },
		func(i *models.Identity) { i.ApplyDeactivation(now) },
	)
	if err != nil {
		return nil, err
	}
	s.finish(ctx, identityID, audit.EventIdentityDeactivated, reason)
	return identity, nil
}

func (s *Service) finish(ctx context.Context, identityID id.IdentityID, action audit.AuditEvent, reason string) {
	s.roles.Invalidate(ctx, identityID)
	if s.publisher == nil {
		return
	}
	event := audit.Event{
		ActorID:   requestcontext.ActorID(ctx),
		TargetID:  identityID,
		Action:    action.String(),
		Outcome:   "success",
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		Device:    requestcontext.Device(ctx),
	}
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}
