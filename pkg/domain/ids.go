package domain

import (
	"github.com/google/uuid"

	dErrors "workpaper/pkg/domain-errors"
)

// Typed IDs keep identity, paper, and business identifiers from being mixed
// up at compile time. Construct via the Parse helpers at trust boundaries;
// direct casting bypasses validation.
type (
	IdentityID uuid.UUID
	PaperID    uuid.UUID
	BusinessID uuid.UUID
	BatchID    uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be the nil UUID")
	}
	return u, nil
}

// ParseIdentityID constructs an IdentityID from external input.
func ParseIdentityID(s string) (IdentityID, error) {
	u, err := parseUUID(s, "identity id")
	return IdentityID(u), err
}

// ParsePaperID constructs a PaperID from external input.
func ParsePaperID(s string) (PaperID, error) {
	u, err := parseUUID(s, "paper id")
	return PaperID(u), err
}

// ParseBusinessID constructs a BusinessID from external input.
func ParseBusinessID(s string) (BusinessID, error) {
	u, err := parseUUID(s, "business id")
	return BusinessID(u), err
}

// ParseBatchID constructs a BatchID from external input.
func ParseBatchID(s string) (BatchID, error) {
	u, err := parseUUID(s, "batch id")
	return BatchID(u), err
}

func (id IdentityID) String() string { return uuid.UUID(id).String() }
func (id PaperID) String() string    { return uuid.UUID(id).String() }
func (id BusinessID) String() string { return uuid.UUID(id).String() }
func (id BatchID) String() string    { return uuid.UUID(id).String() }

func (id IdentityID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PaperID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id BusinessID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id BatchID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewIdentityID mints a fresh identity id.
func NewIdentityID() IdentityID { return IdentityID(uuid.New()) }

// NewPaperID mints a fresh paper id.
func NewPaperID() PaperID { return PaperID(uuid.New()) }

// NewBusinessID mints a fresh business id.
func NewBusinessID() BusinessID { return BusinessID(uuid.New()) }

// NewBatchID mints a fresh bulk batch id.
func NewBatchID() BatchID { return BatchID(uuid.New()) }
