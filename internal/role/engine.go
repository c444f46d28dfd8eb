package role

import (
	"context"
	"log/slog"
	"time"

	businessmodels "workpaper/internal/business/models"
	papermodels "workpaper/internal/paper/models"
	rolemetrics "workpaper/internal/role/metrics"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/requestcontext"
)

// PaperReader is the slice of the paper store the engine needs.
type PaperReader interface {
	ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*papermodels.Paper, error)
}

// BusinessReader is the slice of the business store the engine needs.
type BusinessReader interface {
	ListByOwner(ctx context.Context, ownerID id.IdentityID) ([]*businessmodels.Business, error)
}

// Engine derives an identity's role set from its currently-valid papers and
// owned business registrations. Derivation is deterministic and side-effect
// free; the only failure mode is the storage read itself, which propagates
// instead of silently defaulting to SEEKER.
type Engine struct {
	papers     PaperReader
	businesses BusinessReader
	cache      Cache
	logger     *slog.Logger
	metrics    *rolemetrics.Metrics
}

type Option func(*Engine)

func WithCache(cache Cache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *rolemetrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func NewEngine(papers PaperReader, businesses BusinessReader, opts ...Option) *Engine {
	e := &Engine{papers: papers, businesses: businesses}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Derive computes the identity's role set at the request's instant. When a
// cache is configured, a hit short-circuits the storage read; misses are
// filled after computation.
func (e *Engine) Derive(ctx context.Context, identityID id.IdentityID) (Set, error) {
	if identityID.IsNil() {
		return Set{}, dErrors.New(dErrors.CodeBadRequest, "identity id is required")
	}

	start := time.Now()
	if e.cache != nil {
		if set, ok := e.cache.Get(ctx, identityID); ok {
			e.observe(start, true)
			return set, nil
		}
	}

	papers, err := e.papers.ListByOwner(ctx, identityID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read papers")
	}
	businesses, err := e.businesses.ListByOwner(ctx, identityID)
	if err != nil {
		return Set{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to read business registrations")
	}

	set := DeriveFromSnapshot(papers, businesses, requestcontext.Now(ctx))

	if e.cache != nil {
		e.cache.Set(ctx, identityID, set)
	}
	e.observe(start, false)
	return set, nil
}

// Invalidate drops any cached role set for the identity. Lifecycle services
// call this synchronously inside the mutation path so a permission check
// issued after the mutation's acknowledgement observes the new roles.
func (e *Engine) Invalidate(ctx context.Context, identityID id.IdentityID) {
	if e.cache != nil {
		e.cache.Invalidate(ctx, identityID)
	}
	if e.metrics != nil {
		e.metrics.IncrementInvalidations()
	}
}

func (e *Engine) observe(start time.Time, hit bool) {
	if e.metrics != nil {
		e.metrics.ObserveDerivation(start, hit)
	}
}

// DeriveFromSnapshot is the pure rule chain: no I/O, no side effects. It
// receives a consistent snapshot of papers and owned businesses plus the
// evaluation instant and returns the derived role set.
//
// Rule order matters only for the FRANCHISEE upgrade, which replaces the
// OWNER designation; everything else is a union.
func DeriveFromSnapshot(papers []*papermodels.Paper, businesses []*businessmodels.Business, now time.Time) Set {
	set := NewSet()

	// OWNER(B) for every active, verified business registration the
	// identity owns.
	owned := make(map[id.BusinessID]bool, len(businesses))
	for _, b := range businesses {
		if b.Active && b.IsVerified() {
			owned[b.ID] = true
			bID := b.ID
			set.add(Role{Type: id.RoleOwner, BusinessID: &bID})
		}
	}

	// WORKER(B) for every verified, in-window employment contract. WORKER is
	// the prerequisite for both delegation roles, so collect contexts first.
	working := make(map[id.BusinessID]bool)
	for _, p := range papers {
		if p.Type != id.PaperEmploymentContract || p.RelatedBusinessID == nil {
			continue
		}
		if p.QualifiesVerified(now) {
			bID := *p.RelatedBusinessID
			working[bID] = true
			set.add(Role{Type: id.RoleWorker, BusinessID: &bID})
		}
	}

	var hqPaper bool
	for _, p := range papers {
		switch p.Type {
		case id.PaperAuthorityDelegation:
			// MANAGER requires WORKER to independently hold in the same
			// context; a delegation over an expired contract derives nothing.
			if p.RelatedBusinessID != nil && p.Qualifies(now) && working[*p.RelatedBusinessID] {
				bID := *p.RelatedBusinessID
				set.add(Role{Type: id.RoleManager, BusinessID: &bID})
			}
		case id.PaperSupervisorAuthorityDelegation:
			if p.RelatedBusinessID != nil && p.Qualifies(now) && working[*p.RelatedBusinessID] {
				bID := *p.RelatedBusinessID
				set.add(Role{Type: id.RoleSupervisor, BusinessID: &bID})
			}
		case id.PaperFranchiseAgreement:
			// Upgrades OWNER(B) to FRANCHISEE(B); OWNER capabilities remain a
			// subset via the capability table.
			if p.RelatedBusinessID != nil && p.Qualifies(now) && owned[*p.RelatedBusinessID] {
				bID := *p.RelatedBusinessID
				set.remove(Role{Type: id.RoleOwner, BusinessID: &bID})
				set.add(Role{Type: id.RoleFranchisee, BusinessID: &bID})
			}
		case id.PaperFranchiseHQRegistration:
			if p.QualifiesVerified(now) {
				hqPaper = true
			}
		}
	}

	// A verified franchise HQ registration makes the identity FRANCHISOR of
	// every business it owns; the paper is global, ownership names the
	// franchising business.
	if hqPaper {
		for bID := range owned {
			b := bID
			set.add(Role{Type: id.RoleFranchisor, BusinessID: &b})
		}
	}

	// SEEKER only when nothing else was derived.
	if set.IsEmpty() {
		set.add(Role{Type: id.RoleSeeker})
	}
	return set
}
