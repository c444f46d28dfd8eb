package store

import (
	"context"
	"strings"
	"sync"

	"workpaper/internal/business/models"
	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/sentinel"
)

// InMemory is a map-backed business store for tests and development.
type InMemory struct {
	mu        sync.RWMutex
	records   map[id.BusinessID]*models.Business
	byNumber  map[string]id.BusinessID
}

func NewInMemory() *InMemory {
	return &InMemory{
		records:  make(map[id.BusinessID]*models.Business),
		byNumber: make(map[string]id.BusinessID),
	}
}

func (s *InMemory) CreateIfNumberAvailable(_ context.Context, business *models.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(business.RegistrationNumber)
	if _, taken := s.byNumber[key]; taken {
		return sentinel.ErrConflict
	}
	s.records[business.ID] = business.Clone()
	s.byNumber[key] = business.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, businessID id.BusinessID) (*models.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.records[businessID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return b.Clone(), nil
}

func (s *InMemory) ListByOwner(_ context.Context, ownerID id.IdentityID) ([]*models.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Business
	for _, b := range s.records {
		if b.OwnerIdentityID == ownerID {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (s *InMemory) Update(_ context.Context, business *models.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[business.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.records[business.ID] = business.Clone()
	return nil
}
