package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/queue"
	"github.com/iliyamo/vehicle-advertisement/internal/repository"
)

// EventPublisher receives lifecycle events after successful writes.
// *queue.Publisher satisfies it.
type EventPublisher interface {
	PublishListingEvent(ctx context.Context, event queue.ListingEvent) error
}

// Service implements the dealer and listing operations on top of a
// DealerStore and a ListingStore.
type Service struct {
	dealers  repository.DealerStore
	listings repository.ListingStore
	events   EventPublisher
	now      func() time.Time
	newID    func() uuid.UUID

	locks       *keyedLocker // per-dealer critical sections
	dealerNames sync.Mutex   // serialises the name check in CreateDealer
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEvents sets the publisher that receives lifecycle events.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) { s.events = p }
}

// WithIDGenerator replaces uuid.New for dealer and listing identifiers.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) { s.newID = fn }
}

// New constructs a Service and panics if a store is nil.
func New(dealers repository.DealerStore, listings repository.ListingStore, opts ...Option) *Service {
	if dealers == nil || listings == nil {
		panic("nil store passed to service.New")
	}
	s := &Service{
		dealers:  dealers,
		listings: listings,
		now:      time.Now,
		newID:    uuid.New,
		locks:    newKeyedLocker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamp returns the current time in UTC.
func (s *Service) timestamp() time.Time {
	return s.now().UTC()
}
