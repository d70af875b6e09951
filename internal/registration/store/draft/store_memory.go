package draft

import (
	"context"
	"sync"
	"time"

	"portal/internal/registration/models"
	"portal/pkg/platform/sentinel"
)

type entry struct {
	draft     models.Draft
	expiresAt time.Time
}

// InMemoryStore keeps drafts in a map. Expired drafts are reported once as
// sentinel.ErrExpired and then dropped.
type InMemoryStore struct {
	mu     sync.Mutex
	drafts map[string]entry
	now    func() time.Time
}

type Option func(*InMemoryStore)

// WithNow overrides the clock used for expiry.
func WithNow(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

func NewInMemory(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		drafts: make(map[string]entry),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Save(_ context.Context, d *models.Draft, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = entry{draft: copyDraft(d), expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id string) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.drafts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.drafts, id)
		return nil, sentinel.ErrExpired
	}
	d := copyDraft(&e.draft)
	return &d, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

// copyDraft detaches the stored value from callers' pointers.
func copyDraft(d *models.Draft) models.Draft {
	out := *d
	if d.Identity != nil {
		identity := *d.Identity
		out.Identity = &identity
	}
	if d.Contact != nil {
		contact := *d.Contact
		out.Contact = &contact
	}
	return out
}
