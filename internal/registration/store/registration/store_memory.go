package registration

import (
	"context"
	"sync"

	"portal/internal/registration/models"
	"portal/pkg/platform/sentinel"
)

// InMemoryStore keeps registrations keyed by compact document.
type InMemoryStore struct {
	mu            sync.RWMutex
	registrations map[string]models.Registration
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{registrations: make(map[string]models.Registration)}
}

func (s *InMemoryStore) Create(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.registrations[reg.Document]; exists {
		return sentinel.ErrConflict
	}
	s.registrations[reg.Document] = *reg
	return nil
}

func (s *InMemoryStore) FindByDocument(_ context.Context, document string) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.registrations[document]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &reg, nil
}
