package models

import (
	"time"

	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

// IdentityStatus is the lifecycle state of an identity.
//
// Transitions: ACTIVE ↔ SUSPENDED → DEACTIVATED. DEACTIVATED is terminal;
// a deactivated identity is never hard-deleted while referenced by papers.
type IdentityStatus string

const (
	StatusActive      IdentityStatus = "ACTIVE"
	StatusSuspended   IdentityStatus = "SUSPENDED"
	StatusDeactivated IdentityStatus = "DEACTIVATED"
)

func (s IdentityStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusDeactivated:
		return true
	}
	return false
}

// Identity is a personal or corporate actor.
//
// Invariants:
//   - Type is PERSONAL or CORPORATE
//   - LinkedPersonalID is set only for CORPORATE identities
//   - Status transitions follow the machine above
//   - Roles are never stored here; the role engine derives them from papers
type Identity struct {
	ID               id.IdentityID         `json:"id"`
	Type             id.IdentityType       `json:"type"`
	DisplayName      string                `json:"display_name"`
	Verification     id.VerificationStatus `json:"verification_status"`
	Status           IdentityStatus        `json:"status"`
	// Protected marks top-tier administrators immune to destructive actions
	// regardless of the caller's authority.
	Protected        bool           `json:"protected"`
	LinkedPersonalID *id.IdentityID `json:"linked_personal_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func NewIdentity(identityID id.IdentityID, idType id.IdentityType, displayName string, now time.Time) (*Identity, error) {
	if !idType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "identity type must be PERSONAL or CORPORATE")
	}
	if displayName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "display name cannot be empty")
	}
	if len(displayName) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "display name must be 128 characters or less")
	}
	return &Identity{
		ID:           identityID,
		Type:         idType,
		DisplayName:  displayName,
		Verification: id.VerificationUnverified,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (i *Identity) IsActive() bool {
	return i.Status == StatusActive
}

func (i *Identity) IsVerified() bool {
	return i.Verification == id.VerificationVerified
}

// CanSuspend checks the ACTIVE → SUSPENDED transition. Pair with
// ApplySuspension inside a store Execute callback so the per-identity lock
// covers both validation and mutation.
func (i *Identity) CanSuspend() error {
	switch i.Status {
	case StatusSuspended:
		return dErrors.New(dErrors.CodeInvariantViolation, "identity is already suspended")
	case StatusDeactivated:
		return dErrors.New(dErrors.CodeInvariantViolation, "identity is deactivated")
	}
	return nil
}

func (i *Identity) ApplySuspension(now time.Time) {
	i.Status = StatusSuspended
	i.UpdatedAt = now
}

// CanReactivate checks the SUSPENDED → ACTIVE transition.
func (i *Identity) CanReactivate() error {
	switch i.Status {
	case StatusActive:
		return dErrors.New(dErrors.CodeInvariantViolation, "identity is already active")
	case StatusDeactivated:
		return dErrors.New(dErrors.CodeInvariantViolation, "identity is deactivated")
	}
	return nil
}

func (i *Identity) ApplyReactivation(now time.Time) {
	i.Status = StatusActive
	i.UpdatedAt = now
}

// CanDeactivate checks the transition into the terminal DEACTIVATED state.
func (i *Identity) CanDeactivate() error {
	if i.Status == StatusDeactivated {
		return dErrors.New(dErrors.CodeInvariantViolation, "identity is already deactivated")
	}
	return nil
}

func (i *Identity) ApplyDeactivation(now time.Time) {
	i.Status = StatusDeactivated
	i.UpdatedAt = now
}

// ApplyVerification records the outcome of an administrative review.
func (i *Identity) ApplyVerification(status id.VerificationStatus, now time.Time) error {
	if i.Verification.IsTerminal() {
		return dErrors.New(dErrors.CodeInvariantViolation, "verification status is terminal")
	}
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invalid verification status")
	}
	i.Verification = status
	i.UpdatedAt = now
	return nil
}

// Clone returns a deep copy so stores can hand out snapshots without
// exposing internal state to concurrent mutation.
func (i *Identity) Clone() *Identity {
	cp := *i
	if i.LinkedPersonalID != nil {
		linked := *i.LinkedPersonalID
		cp.LinkedPersonalID = &linked
	}
	return &cp
}
