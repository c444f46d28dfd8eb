package models

import (
	"time"

	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

// FeeStructure is the franchise fee arrangement carried by a
// FRANCHISE_AGREEMENT paper.
type FeeStructure struct {
	InitialFee     int64   `json:"initial_fee"`
	RoyaltyPercent float64 `json:"royalty_percent"`
}

// Payload is the type-specific structured content of a paper. Which fields
// are required depends on the paper type; ValidateFor collects every violated
// rule rather than stopping at the first.
type Payload struct {
	// Employment contract
	Position  string     `json:"position,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`

	// Authority delegations
	DelegatedAuthorities []string       `json:"delegated_authorities,omitempty"`
	DelegatorIdentityID  *id.IdentityID `json:"delegator_identity_id,omitempty"`

	// Franchise agreement
	FranchiseTerritory string        `json:"franchise_territory,omitempty"`
	Fees               *FeeStructure `json:"fees,omitempty"`

	// Registration papers (business / franchise HQ) carry the registration
	// facts that create the business context.
	RegistrationNumber string `json:"registration_number,omitempty"`
	BusinessName       string `json:"business_name,omitempty"`
	BusinessType       string `json:"business_type,omitempty"`
}

// ValidateFor returns every field rule the payload violates for the given
// paper type. An empty slice means the payload is acceptable.
func (p Payload) ValidateFor(paperType id.PaperType) []dErrors.FieldViolation {
	var violations []dErrors.FieldViolation
	missing := func(field, msg string) {
		violations = append(violations, dErrors.FieldViolation{Field: field, Message: msg})
	}

	switch paperType {
	case id.PaperEmploymentContract:
		if p.Position == "" {
			missing("position", "position is required for an employment contract")
		}
		if p.StartDate == nil {
			missing("start_date", "start date is required for an employment contract")
		}

	case id.PaperAuthorityDelegation, id.PaperSupervisorAuthorityDelegation:
		if len(p.DelegatedAuthorities) == 0 {
			missing("delegated_authorities", "at least one delegated authority is required")
		}
		if p.DelegatorIdentityID == nil || p.DelegatorIdentityID.IsNil() {
			missing("delegator_identity_id", "delegator identity is required")
		}

	case id.PaperFranchiseAgreement:
		if p.FranchiseTerritory == "" {
			missing("franchise_territory", "franchise territory is required")
		}
		if p.Fees == nil {
			missing("fees", "fee structure is required")
		} else {
			if p.Fees.InitialFee < 0 {
				missing("fees.initial_fee", "initial fee cannot be negative")
			}
			if p.Fees.RoyaltyPercent < 0 || p.Fees.RoyaltyPercent > 100 {
				missing("fees.royalty_percent", "royalty percent must be between 0 and 100")
			}
		}

	case id.PaperBusinessRegistration, id.PaperFranchiseHQRegistration:
		if p.RegistrationNumber == "" {
			missing("registration_number", "registration number is required")
		}
		if p.BusinessName == "" {
			missing("business_name", "business name is required")
		}
	}

	return violations
}
