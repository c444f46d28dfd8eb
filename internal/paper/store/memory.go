package store

import (
	"context"
	"sync"

	"workpaper/internal/paper/models"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/sentinel"
)

type record struct {
	mu    sync.Mutex
	paper *models.Paper
}

// InMemory is a map-backed paper store for tests and development.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.PaperID]*record
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.PaperID]*record)}
}

func (s *InMemory) Create(_ context.Context, paper *models.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[paper.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[paper.ID] = &record{paper: paper.Clone()}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, paperID id.PaperID) (*models.Paper, error) {
	s.mu.RLock()
	rec, ok := s.records[paperID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.paper.Clone(), nil
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID id.IdentityID) ([]*models.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Paper
	for _, rec := range s.records {
		rec.mu.Lock()
		if rec.paper.OwnerIdentityID == ownerID {
			out = append(out, rec.paper.Clone())
		}
		rec.mu.Unlock()
	}
	return out, nil
}

func (s *InMemory) ListByBusiness(_ context.Context, businessID id.BusinessID) ([]*models.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Paper
	for _, rec := range s.records {
		rec.mu.Lock()
		if rec.paper.RelatedBusinessID != nil && *rec.paper.RelatedBusinessID == businessID {
			out = append(out, rec.paper.Clone())
		}
		rec.mu.Unlock()
	}
	return out, nil
}

func (s *InMemory) Execute(ctx context.Context, paperID id.PaperID,
	validate func(*models.Paper) error,
	mutate func(*models.Paper)) (*models.Paper, error) {

	s.mu.RLock()
	rec, ok := s.records[paperID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	working := rec.paper.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	rec.paper = working
	return working.Clone(), nil
}
