package domain

import dErrors "workpaper/pkg/domain-errors"

// IdentityType distinguishes natural persons from corporate entities.
type IdentityType string

const (
	IdentityPersonal  IdentityType = "PERSONAL"
	IdentityCorporate IdentityType = "CORPORATE"
)

// ParseIdentityType constructs an IdentityType from external input.
func ParseIdentityType(s string) (IdentityType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity type cannot be empty")
	}
	t := IdentityType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid identity type")
	}
	return t, nil
}

func (t IdentityType) IsValid() bool {
	return t == IdentityPersonal || t == IdentityCorporate
}

func (t IdentityType) String() string {
	return string(t)
}
