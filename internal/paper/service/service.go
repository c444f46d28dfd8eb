package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"workpaper/internal/audit"
	businessmodels "workpaper/internal/business/models"
	businessstore "workpaper/internal/business/store"
	identitymodels "workpaper/internal/identity/models"
	"workpaper/internal/paper/models"
	"workpaper/internal/paper/store"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
	platformstrings "workpaper/pkg/platform/strings"
	"workpaper/pkg/requestcontext"
)

// IdentityReader is the slice of the identity store the lifecycle needs.
type IdentityReader interface {
	FindByID(ctx context.Context, identityID id.IdentityID) (*identitymodels.Identity, error)
}

// RoleInvalidator drops cached role sets. Invalidation happens synchronously
// inside the mutation path so permission checks after the acknowledgement
// see the new roles.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, identityID id.IdentityID)
}

// Service manages the paper lifecycle: creation, verification review,
// deactivation, and validity extension. Every mutation emits an audit event
// and invalidates the owner's derived roles when the change can alter them.
type Service struct {
	papers     store.Store
	businesses businessstore.Store
	identities IdentityReader
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

func New(papers store.Store, businesses businessstore.Store, identities IdentityReader,
	roles RoleInvalidator, publisher *audit.Publisher, opts ...Option) *Service {
	s := &Service{
		papers:     papers,
		businesses: businesses,
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

// CreateInput carries everything needed to issue a new paper. The caller is
// taken from the request context for auditing.
type CreateInput struct {
	Type              id.PaperType
	OwnerIdentityID   id.IdentityID
	RelatedBusinessID *id.BusinessID
	Payload           models.Payload
	ValidFrom         time.Time
	ValidUntil        *time.Time
}

// Create validates the input as a whole and persists the paper. Validation
// reports every violation in one pass rather than stopping at the first, so
// a client can fix a bad request in a single round trip.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Paper, error) {
	now := requestcontext.Now(ctx)
	input.Payload.DelegatedAuthorities = platformstrings.DedupeAndTrim(input.Payload.DelegatedAuthorities)
	violations, err := s.validateCreate(ctx, input, now)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, dErrors.NewValidation("paper validation failed", violations...)
	}

	paper, err := models.NewPaper(id.NewPaperID(), input.Type, input.OwnerIdentityID,
		input.RelatedBusinessID, input.Payload, input.ValidFrom, input.ValidUntil, now)
	if err != nil {
		return nil, err
	}

	if err := s.papers.Create(ctx, paper); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist paper")
	}

	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: paper.OwnerIdentityID,
		PaperID:  paper.ID,
		Action:   audit.EventPaperCreated.String(),
		Outcome:  "success",
	})
	// An unverified paper can already qualify for delegation roles, so the
	// owner's cached set is stale from this point.
	s.roles.Invalidate(ctx, paper.OwnerIdentityID)
	return paper, nil
}

// validateCreate reports field violations the client can fix. Infrastructure
// failures while loading referenced records return an error instead so an
// outage is never misreported as bad input.
func (s *Service) validateCreate(ctx context.Context, input CreateInput, now time.Time) ([]dErrors.FieldViolation, error) {
	var violations []dErrors.FieldViolation

	if !input.Type.IsValid() {
		violations = append(violations, dErrors.FieldViolation{Field: "type", Message: "unknown paper type"})
		return violations, nil
	}
	if input.ValidUntil != nil && !input.ValidFrom.Before(*input.ValidUntil) {
		violations = append(violations, dErrors.FieldViolation{Field: "valid_until", Message: "must be after valid_from"})
	}

	violations = append(violations, input.Payload.ValidateFor(input.Type)...)

	if input.OwnerIdentityID.IsNil() {
		violations = append(violations, dErrors.FieldViolation{Field: "owner_identity_id", Message: "is required"})
	} else {
		owner, err := s.identities.FindByID(ctx, input.OwnerIdentityID)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			violations = append(violations, dErrors.FieldViolation{Field: "owner_identity_id", Message: "identity not found"})
		case err != nil:
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load owner identity")
		case !owner.IsActive():
			violations = append(violations, dErrors.FieldViolation{Field: "owner_identity_id", Message: "identity is not active"})
		case input.Type.RequiresBusinessContext() && requestcontext.ActorID(ctx) != owner.ID && !owner.IsVerified():
			// Business papers issued on someone's behalf require a verified
			// subject; self-submitted papers wait for review like any other.
			violations = append(violations, dErrors.FieldViolation{Field: "owner_identity_id", Message: "identity is not verified"})
		}
	}

	if input.Type.RequiresBusinessContext() {
		if input.RelatedBusinessID == nil || input.RelatedBusinessID.IsNil() {
			violations = append(violations, dErrors.FieldViolation{Field: "related_business_id", Message: "is required for this paper type"})
		} else {
			business, err := s.businesses.FindByID(ctx, *input.RelatedBusinessID)
			switch {
			case errors.Is(err, sentinel.ErrNotFound):
				violations = append(violations, dErrors.FieldViolation{Field: "related_business_id", Message: "business not found"})
			case err != nil:
				return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load related business")
			case !business.Usable():
				violations = append(violations, dErrors.FieldViolation{Field: "related_business_id", Message: "business is not active and verified"})
			}
		}
	} else if input.RelatedBusinessID != nil && !input.RelatedBusinessID.IsNil() {
		violations = append(violations, dErrors.FieldViolation{Field: "related_business_id", Message: "must be empty for this paper type"})
	}

	return violations, nil
}

// Review records the verification outcome of an unverified paper. VERIFIED
// and REJECTED both settle the paper; rejected papers never qualify again
// and a fresh submission supersedes them.
func (s *Service) Review(ctx context.Context, paperID id.PaperID, outcome id.VerificationStatus) (*models.Paper, error) {
	if outcome != id.VerificationVerified && outcome != id.VerificationRejected {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "review outcome must be VERIFIED or REJECTED")
	}
	now := requestcontext.Now(ctx)

	if outcome == id.VerificationVerified {
		if err := s.materializeRegistration(ctx, paperID, now); err != nil {
			return nil, err
		}
	}

	paper, err := s.papers.Execute(ctx, paperID,
		func(p *models.Paper) error { return p.CanReview() },
		func(p *models.Paper) { p.ApplyReview(outcome, now) },
	)
	if err != nil {
		return nil, err
	}

	action := audit.EventPaperVerified
	if outcome == id.VerificationRejected {
		action = audit.EventPaperRejected
	}
	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: paper.OwnerIdentityID,
		PaperID:  paper.ID,
		Action:   action.String(),
		Outcome:  "success",
	})
	s.roles.Invalidate(ctx, paper.OwnerIdentityID)
	return paper, nil
}

// materializeRegistration turns a verified BUSINESS_REGISTRATION paper into
// the business record it asserts. The business is created before the paper
// settles, so a registration number already in use fails the review and
// leaves the paper reviewable.
func (s *Service) materializeRegistration(ctx context.Context, paperID id.PaperID, now time.Time) error {
	paper, err := s.papers.FindByID(ctx, paperID)
	if err != nil {
		return err
	}
	if paper.Type != id.PaperBusinessRegistration {
		return nil
	}
	if err := paper.CanReview(); err != nil {
		return err
	}

	business, err := businessmodels.NewBusiness(id.NewBusinessID(),
		paper.Payload.RegistrationNumber, paper.Payload.BusinessName,
		paper.Payload.BusinessType, paper.OwnerIdentityID, now)
	if err != nil {
		return err
	}
	// The review itself is the verification; the business starts verified.
	business.Verification = id.VerificationVerified

	if err := s.businesses.CreateIfNumberAvailable(ctx, business); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "registration number is already in use")
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to persist business")
	}

	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: paper.OwnerIdentityID,
		PaperID:  paper.ID,
		Action:   audit.EventBusinessRegistered.String(),
		Outcome:  "success",
	})
	return nil
}

// Deactivate retires a paper. The state is terminal; reactivation means
// issuing a new paper.
func (s *Service) Deactivate(ctx context.Context, paperID id.PaperID, reason string) (*models.Paper, error) {
	now := requestcontext.Now(ctx)

	paper, err := s.papers.Execute(ctx, paperID,
		func(p *models.Paper) error { return p.CanDeactivate() },
		func(p *models.Paper) { p.ApplyDeactivation(now) },
	)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: paper.OwnerIdentityID,
		PaperID:  paper.ID,
		Action:   audit.EventPaperDeactivated.String(),
		Outcome:  "success",
		Reason:   reason,
	})
	s.roles.Invalidate(ctx, paper.OwnerIdentityID)
	return paper, nil
}

// Extend moves the paper's expiry. Roles are recomputed only when the change
// crosses the expiry boundary relative to the request instant; extending a
// still-valid paper further into the future leaves the derived set intact.
func (s *Service) Extend(ctx context.Context, paperID id.PaperID, newValidUntil time.Time) (*models.Paper, error) {
	now := requestcontext.Now(ctx)

	var crossesExpiry bool
	paper, err := s.papers.Execute(ctx, paperID,
		func(p *models.Paper) error { return p.CanExtend(newValidUntil) },
		func(p *models.Paper) { crossesExpiry = p.ApplyExtension(newValidUntil, now) },
	)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, audit.Event{
		ActorID:  requestcontext.ActorID(ctx),
		TargetID: paper.OwnerIdentityID,
		PaperID:  paper.ID,
		Action:   audit.EventPaperExtended.String(),
		Outcome:  "success",
	})
	if crossesExpiry {
		s.roles.Invalidate(ctx, paper.OwnerIdentityID)
	}
	return paper, nil
}

// Get returns the paper by id.
func (s *Service) Get(ctx context.Context, paperID id.PaperID) (*models.Paper, error) {
	return s.papers.FindByID(ctx, paperID)
}

// ListByOwner returns every paper the identity owns, newest first per store
// ordering; callers filter by qualification as needed.
func (s *Service) ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*models.Paper, error) {
	return s.papers.ListByOwner(ctx, ownerID)
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
