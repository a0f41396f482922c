package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
)

// MemoryDealerStore keeps dealers in process memory. Iteration order is
// insertion order. Returned dealers are copies.
type MemoryDealerStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]model.Dealer
}

// NewMemoryDealerStore returns an empty store.
func NewMemoryDealerStore() *MemoryDealerStore {
	return &MemoryDealerStore{byID: make(map[uuid.UUID]model.Dealer)}
}

func (s *MemoryDealerStore) Save(_ context.Context, d *model.Dealer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[d.ID]; !ok {
		s.order = append(s.order, d.ID)
	}
	s.byID[d.ID] = *d
	return nil
}

func (s *MemoryDealerStore) FindAll(_ context.Context) ([]*model.Dealer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Dealer, 0, len(s.order))
	for _, id := range s.order {
		d := s.byID[id]
		out = append(out, &d)
	}
	return out, nil
}

func (s *MemoryDealerStore) FindByID(_ context.Context, id uuid.UUID) (*model.Dealer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &d, nil
}

// MemoryListingStore keeps listings in process memory. A multi-listing
// Save happens under one write lock so FindAll never sees half of it.
type MemoryListingStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]*model.Listing
}

// NewMemoryListingStore returns an empty store.
func NewMemoryListingStore() *MemoryListingStore {
	return &MemoryListingStore{byID: make(map[uuid.UUID]*model.Listing)}
}

func (s *MemoryListingStore) Save(_ context.Context, listings ...*model.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range listings {
		if _, ok := s.byID[l.ID]; !ok {
			s.order = append(s.order, l.ID)
		}
		s.byID[l.ID] = l.Clone()
	}
	return nil
}

func (s *MemoryListingStore) FindAll(_ context.Context) ([]*model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Listing, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

func (s *MemoryListingStore) FindByID(_ context.Context, id uuid.UUID) (*model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return l.Clone(), nil
}
