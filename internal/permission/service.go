package permission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	identitymodels "workpaper/internal/identity/models"
	permissionmetrics "workpaper/internal/permission/metrics"
	"workpaper/internal/role"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
)

// RoleSource supplies the caller's derived role set.
type RoleSource interface {
	Derive(ctx context.Context, identityID id.IdentityID) (role.Set, error)
}

// IdentityReader is the slice of the identity store needed to inspect
// protection flags on targets.
type IdentityReader interface {
	FindByID(ctx context.Context, identityID id.IdentityID) (*identitymodels.Identity, error)
}

// Service resolves permission decisions from derived roles plus contextual
// exceptions. It is re-entrant and side-effect free: it never mutates state
// and never triggers role recomputation; it consumes whatever the engine
// currently returns.
type Service struct {
	roles      RoleSource
	identities IdentityReader
	logger     *slog.Logger
	metrics    *permissionmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *permissionmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(roles RoleSource, identities IdentityReader, opts ...Option) *Service {
	s := &Service{roles: roles, identities: identities}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check evaluates the ordered rule list:
//
//  1. protected-target exception
//  2. self-action exception
//  3. ownership shortcut
//  4. role-capability table lookup
//  5. default deny
//
// Infrastructure failures (storage read) propagate as errors; a Decision is
// returned only when the evaluation completed.
func (s *Service) Check(ctx context.Context, callerID id.IdentityID, resource Resource, action Action, checkCtx CheckContext) (Decision, error) {
	if callerID.IsNil() {
		return Decision{}, dErrors.New(dErrors.CodeUnauthorized, "caller identity is required")
	}

	start := time.Now()
	decision, err := s.check(ctx, callerID, resource, action, checkCtx)
	if err != nil {
		return Decision{}, err
	}
	s.observe(resource, action, decision, start)
	if !decision.Granted && s.logger != nil {
		s.logger.InfoContext(ctx, "permission denied",
			"caller_id", callerID,
			"resource", resource,
			"action", action,
			"reason", decision.Reason,
		)
	}
	return decision, nil
}

func (s *Service) check(ctx context.Context, callerID id.IdentityID, resource Resource, action Action, checkCtx CheckContext) (Decision, error) {
	// Rule 1: protected-target exception. Applies to destructive actions
	// aimed at another identity, regardless of the caller's role.
	if action.IsDestructive() && checkCtx.TargetIdentityID != nil && *checkCtx.TargetIdentityID != callerID {
		target, err := s.identities.FindByID(ctx, *checkCtx.TargetIdentityID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read target identity")
		}
		if err == nil && target.Protected {
			if !checkCtx.Override {
				return deny(ReasonTargetProtected), nil
			}
			caller, err := s.identities.FindByID(ctx, callerID)
			if err != nil {
				return Decision{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read caller identity")
			}
			// Override is honored only between top-tier administrators.
			if !caller.Protected {
				return deny(ReasonTargetProtected), nil
			}
		}
	}

	// Rule 2: self-action exception. Destructive actions never apply to the
	// caller's own account, independent of role.
	if action.IsDestructive() && checkCtx.TargetIdentityID != nil && *checkCtx.TargetIdentityID == callerID {
		return deny(ReasonSelfAction), nil
	}

	// Rule 3: ownership shortcut for self-service reads and updates.
	if selfServiceActions[action] && checkCtx.ResourceOwnerID != nil && *checkCtx.ResourceOwnerID == callerID {
		return grant(ReasonOwnResource), nil
	}

	// Rule 4: capability table lookup over the context-applicable roles. A
	// multi-role identity is granted if any applicable role satisfies the
	// pair.
	set, err := s.roles.Derive(ctx, callerID)
	if err != nil {
		return Decision{}, err
	}
	if checkCtx.BusinessID != nil {
		set = set.InContext(*checkCtx.BusinessID)
	}
	for _, r := range set.Roles() {
		if roleAllows(r.Type, resource, action) {
			return grant(ReasonRoleGranted), nil
		}
	}

	// Rule 5: default deny.
	return deny(ReasonInsufficient), nil
}

func (s *Service) observe(resource Resource, action Action, decision Decision, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveCheck(string(resource), string(action), decision.Granted, start)
	}
}
