package domain

import dErrors "workpaper/pkg/domain-errors"

// PaperType identifies what fact a paper asserts about its owner. This is the
// single canonical enumeration; legacy names accepted at the HTTP boundary
// are mapped in handler request parsing, never here.
type PaperType string

const (
	PaperBusinessRegistration         PaperType = "BUSINESS_REGISTRATION"
	PaperEmploymentContract           PaperType = "EMPLOYMENT_CONTRACT"
	PaperAuthorityDelegation          PaperType = "AUTHORITY_DELEGATION"
	PaperSupervisorAuthorityDelegation PaperType = "SUPERVISOR_AUTHORITY_DELEGATION"
	PaperFranchiseAgreement           PaperType = "FRANCHISE_AGREEMENT"
	PaperFranchiseHQRegistration      PaperType = "FRANCHISE_HQ_REGISTRATION"
)

var validPaperTypes = map[PaperType]bool{
	PaperBusinessRegistration:          true,
	PaperEmploymentContract:            true,
	PaperAuthorityDelegation:           true,
	PaperSupervisorAuthorityDelegation: true,
	PaperFranchiseAgreement:            true,
	PaperFranchiseHQRegistration:       true,
}

// ParsePaperType constructs a PaperType from external input.
func ParsePaperType(s string) (PaperType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "paper type cannot be empty")
	}
	p := PaperType(s)
	if !p.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid paper type")
	}
	return p, nil
}

func (p PaperType) IsValid() bool {
	return validPaperTypes[p]
}

// RequiresBusinessContext reports whether papers of this type must reference
// an existing business registration. Registration papers create the business
// context instead of attaching to one.
func (p PaperType) RequiresBusinessContext() bool {
	switch p {
	case PaperBusinessRegistration, PaperFranchiseHQRegistration:
		return false
	default:
		return true
	}
}

func (p PaperType) String() string {
	return string(p)
}
