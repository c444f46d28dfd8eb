package models

import (
	"time"

	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

// Paper is a typed, time-bounded document asserting a fact about an identity,
// optionally scoped to a business context.
//
// Invariants:
//   - ValidFrom < ValidUntil when both are set
//   - PaperType and OwnerIdentityID are immutable after creation
//   - RelatedBusinessID is set exactly when the type requires a context
//   - REJECTED and deactivated papers are terminal; supersede, never
//     resurrect
//
// Expired papers are excluded from role derivation but never deleted; they
// remain for audit history.
type Paper struct {
	ID                id.PaperID            `json:"id"`
	Type              id.PaperType          `json:"type"`
	OwnerIdentityID   id.IdentityID         `json:"owner_identity_id"`
	RelatedBusinessID *id.BusinessID        `json:"related_business_id,omitempty"`
	Payload           Payload               `json:"payload"`
	ValidFrom         time.Time             `json:"valid_from"`
	ValidUntil        *time.Time            `json:"valid_until,omitempty"`
	Active            bool                  `json:"active"`
	Verification      id.VerificationStatus `json:"verification_status"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

func NewPaper(paperID id.PaperID, paperType id.PaperType, owner id.IdentityID,
	business *id.BusinessID, payload Payload, validFrom time.Time, validUntil *time.Time,
	now time.Time) (*Paper, error) {

	if !paperType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid paper type")
	}
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner identity is required")
	}
	if validUntil != nil && !validFrom.Before(*validUntil) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "valid_from must precede valid_until")
	}
	if paperType.RequiresBusinessContext() && (business == nil || business.IsNil()) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "paper type requires a business context")
	}
	return &Paper{
		ID:                paperID,
		Type:              paperType,
		OwnerIdentityID:   owner,
		RelatedBusinessID: business,
		Payload:           payload,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		Active:            true,
		Verification:      id.VerificationUnverified,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// WithinValidity reports whether now falls inside the paper's validity
// window. An absent valid_until means open-ended.
func (p *Paper) WithinValidity(now time.Time) bool {
	if now.Before(p.ValidFrom) {
		return false
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return false
	}
	return true
}

// Qualifies reports whether the paper can justify a role at the given
// instant: active, not rejected, and within its validity window. Whether
// VERIFIED is additionally required is the derivation rule's call.
func (p *Paper) Qualifies(now time.Time) bool {
	return p.Active && p.Verification != id.VerificationRejected && p.WithinValidity(now)
}

// QualifiesVerified is Qualifies plus the VERIFIED requirement.
func (p *Paper) QualifiesVerified(now time.Time) bool {
	return p.Qualifies(now) && p.Verification == id.VerificationVerified
}

// CanReview checks the UNVERIFIED → VERIFIED/REJECTED transition.
func (p *Paper) CanReview() error {
	if !p.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "paper is deactivated")
	}
	if p.Verification != id.VerificationUnverified {
		return dErrors.New(dErrors.CodeInvariantViolation, "paper has already been reviewed")
	}
	return nil
}

// ApplyReview records the verification outcome. Call CanReview first.
func (p *Paper) ApplyReview(status id.VerificationStatus, now time.Time) {
	p.Verification = status
	p.UpdatedAt = now
}

// CanDeactivate checks the transition into the terminal inactive state.
func (p *Paper) CanDeactivate() error {
	if !p.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "paper is already inactive")
	}
	return nil
}

func (p *Paper) ApplyDeactivation(now time.Time) {
	p.Active = false
	p.UpdatedAt = now
}

// CanExtend checks that the new expiry keeps the validity invariant.
func (p *Paper) CanExtend(newValidUntil time.Time) error {
	if !p.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "paper is inactive")
	}
	if p.Verification == id.VerificationRejected {
		return dErrors.New(dErrors.CodeInvariantViolation, "paper is rejected")
	}
	if !p.ValidFrom.Before(newValidUntil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "new valid_until must be after valid_from")
	}
	return nil
}

// ApplyExtension moves the expiry. CrossesExpiry reports whether the change
// moved the paper across the expiry boundary relative to now, which is what
// decides whether roles must be recomputed.
func (p *Paper) ApplyExtension(newValidUntil time.Time, now time.Time) (crossesExpiry bool) {
	wasValid := p.WithinValidity(now)
	until := newValidUntil
	p.ValidUntil = &until
	p.UpdatedAt = now
	return wasValid != p.WithinValidity(now)
}

func (p *Paper) Clone() *Paper {
	cp := *p
	if p.RelatedBusinessID != nil {
		b := *p.RelatedBusinessID
		cp.RelatedBusinessID = &b
	}
	if p.ValidUntil != nil {
		u := *p.ValidUntil
		cp.ValidUntil = &u
	}
	if p.Payload.StartDate != nil {
		sd := *p.Payload.StartDate
		cp.Payload.StartDate = &sd
	}
	if p.Payload.DelegatorIdentityID != nil {
		d := *p.Payload.DelegatorIdentityID
		cp.Payload.DelegatorIdentityID = &d
	}
	if p.Payload.Fees != nil {
		f := *p.Payload.Fees
		cp.Payload.Fees = &f
	}
	if p.Payload.DelegatedAuthorities != nil {
		cp.Payload.DelegatedAuthorities = append([]string(nil), p.Payload.DelegatedAuthorities...)
	}
	return &cp
}
