package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in the store
// - ErrConflict: concurrent mutation detected on the same record
// - ErrExpired: record's validity window has passed
// - ErrInvalidState: record in wrong state for the requested transition
// - ErrTxFailed: storage-level transaction failure mid-mutation
// - ErrUnavailable: storage temporarily unreachable
//
// For field-level validation use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrTxFailed     = errors.New("transaction failed")
	ErrUnavailable  = errors.New("unavailable")
)
