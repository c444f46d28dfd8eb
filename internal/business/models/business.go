package models

import (
	"time"

	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

// Business is a registered business entity. It is the scoping context that
// business-relative papers and roles attach to.
//
// Invariants:
//   - RegistrationNumber is non-empty and unique across the store
//   - OwnerIdentityID is set and immutable after creation
type Business struct {
	ID                 id.BusinessID         `json:"id"`
	RegistrationNumber string                `json:"registration_number"`
	Name               string                `json:"name"`
	BusinessType       string                `json:"business_type"`
	OwnerIdentityID    id.IdentityID         `json:"owner_identity_id"`
	Verification       id.VerificationStatus `json:"verification_status"`
	Active             bool                  `json:"active"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
}

func NewBusiness(businessID id.BusinessID, registrationNumber, name, businessType string, owner id.IdentityID, now time.Time) (*Business, error) {
	if registrationNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "registration number cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "business name cannot be empty")
	}
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner identity is required")
	}
	return &Business{
		ID:                 businessID,
		RegistrationNumber: registrationNumber,
		Name:               name,
		BusinessType:       businessType,
		OwnerIdentityID:    owner,
		Verification:       id.VerificationUnverified,
		Active:             true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (b *Business) IsVerified() bool {
	return b.Verification == id.VerificationVerified
}

// Usable reports whether the business can serve as a paper's context.
func (b *Business) Usable() bool {
	return b.Active && b.IsVerified()
}

// CanDeactivate checks the transition out of the active state.
func (b *Business) CanDeactivate() error {
	if !b.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "business is already inactive")
	}
	return nil
}

func (b *Business) ApplyDeactivation(now time.Time) {
	b.Active = false
	b.UpdatedAt = now
}

// ApplyVerification records the registrar's review outcome.
func (b *Business) ApplyVerification(status id.VerificationStatus, now time.Time) error {
	if b.Verification.IsTerminal() {
		return dErrors.New(dErrors.CodeInvariantViolation, "verification status is terminal")
	}
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid verification status")
	}
	b.Verification = status
	b.UpdatedAt = now
	return nil
}

func (b *Business) Clone() *Business {
	cp := *b
	return &cp
}
