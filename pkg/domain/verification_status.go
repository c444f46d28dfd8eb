package domain

import dErrors "workpaper/pkg/domain-errors"

// VerificationStatus records whether an authority has confirmed the claims a
// paper or business registration makes. REJECTED is terminal: a rejected
// paper is superseded by a new one, never resurrected.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationRejected   VerificationStatus = "REJECTED"
)

// ParseVerificationStatus constructs a VerificationStatus from external input.
func ParseVerificationStatus(s string) (VerificationStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "verification status cannot be empty")
	}
	v := VerificationStatus(s)
	if !v.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid verification status")
	}
	return v, nil
}

func (v VerificationStatus) IsValid() bool {
	switch v {
	case VerificationUnverified, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (v VerificationStatus) IsTerminal() bool {
	return v == VerificationRejected
}

func (v VerificationStatus) String() string {
	return string(v)
}
