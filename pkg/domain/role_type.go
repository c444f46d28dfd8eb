package domain

import dErrors "workpaper/pkg/domain-errors"

// RoleType is a derived authorization tier. Roles are never stored
// authoritatively; the role engine recomputes them from currently-valid
// papers, so this enum deliberately has no persistence mapping.
//
// Authority ordering holds within a single business context only: an
// identity can be WORKER in one business and OWNER in another.
type RoleType string

const (
	RoleSeeker     RoleType = "SEEKER"
	RoleWorker     RoleType = "WORKER"
	RoleManager    RoleType = "MANAGER"
	RoleSupervisor RoleType = "SUPERVISOR"
	RoleOwner      RoleType = "OWNER"
	RoleFranchisee RoleType = "FRANCHISEE"
	RoleFranchisor RoleType = "FRANCHISOR"
)

// roleAuthority orders roles by increasing authority within one business
// context. Used for hierarchy comparisons, never across contexts.
var roleAuthority = map[RoleType]int{
	RoleSeeker:     0,
	RoleWorker:     1,
	RoleManager:    2,
	RoleSupervisor: 3,
	RoleOwner:      4,
	RoleFranchisee: 5,
	RoleFranchisor: 6,
}

var validRoleTypes = map[RoleType]bool{
	RoleSeeker:     true,
	RoleWorker:     true,
	RoleManager:    true,
	RoleSupervisor: true,
	RoleOwner:      true,
	RoleFranchisee: true,
	RoleFranchisor: true,
}

// ParseRoleType constructs a RoleType from external input.
func ParseRoleType(s string) (RoleType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role type cannot be empty")
	}
	r := RoleType(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role type")
	}
	return r, nil
}

func (r RoleType) IsValid() bool {
	return validRoleTypes[r]
}

// Authority returns the in-context authority rank of the role.
func (r RoleType) Authority() int {
	return roleAuthority[r]
}

// AtLeast reports whether r carries at least the authority of other within
// the same business context.
func (r RoleType) AtLeast(other RoleType) bool {
	return roleAuthority[r] >= roleAuthority[other]
}

func (r RoleType) String() string {
	return string(r)
}
