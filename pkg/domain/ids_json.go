package domain

import "github.com/google/uuid"

// Text marshaling so typed IDs render as canonical UUID strings in JSON
// instead of byte arrays. Unmarshal goes through the Parse helpers to keep
// boundary validation in one place.

func (id IdentityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id PaperID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id BusinessID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id BatchID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *IdentityID) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PaperID) UnmarshalText(b []byte) error {
	parsed, err := ParsePaperID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *BusinessID) UnmarshalText(b []byte) error {
	parsed, err := ParseBusinessID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *BatchID) UnmarshalText(b []byte) error {
	parsed, err := ParseBatchID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// UUID returns the underlying uuid.UUID, for store layers that persist raw UUIDs.
func (id IdentityID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id PaperID) UUID() uuid.UUID    { return uuid.UUID(id) }
func (id BusinessID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id BatchID) UUID() uuid.UUID    { return uuid.UUID(id) }
