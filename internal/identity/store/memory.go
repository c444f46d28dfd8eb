package store

import (
	"context"
	"sync"

	"workpaper/internal/identity/models"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/sentinel"
)

// record pairs an identity with its own mutex so Execute serializes per
// identity instead of globally.
type record struct {
	mu       sync.Mutex
	identity *models.Identity
}

// InMemory is a map-backed identity store for tests and development.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.IdentityID]*record
	failOn  map[id.IdentityID]error
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.IdentityID]*record),
		failOn:  make(map[id.IdentityID]error),
	}
}

func (s *InMemory) Create(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[identity.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[identity.ID] = &record{identity: identity.Clone()}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, identityID id.IdentityID) (*models.Identity, error) {
	s.mu.RLock()
	rec, ok := s.records[identityID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.identity.Clone(), nil
}

func (s *InMemory) Update(_ context.Context, identity *models.Identity) error {
	s.mu.RLock()
	rec, ok := s.records[identity.ID]
	s.mu.RUnlock()
	if !ok {
		return sentinel.ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.identity = identity.Clone()
	return nil
}

func (s *InMemory) Execute(ctx context.Context, identityID id.IdentityID,
	validate func(*models.Identity) error,
	mutate func(*models.Identity)) (*models.Identity, error) {

	s.mu.RLock()
	rec, ok := s.records[identityID]
	injected := s.failOn[identityID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if injected != nil {
		return nil, injected
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := rec.identity.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	rec.identity = working
	return working.Clone(), nil
}

// FailExecuteFor makes every Execute against identityID fail with err.
// Test hook for storage-failure and conflict paths.
func (s *InMemory) FailExecuteFor(identityID id.IdentityID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[identityID] = err
}
