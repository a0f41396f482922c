package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
	"github.com/iliyamo/vehicle-advertisement/internal/queue"
	"github.com/iliyamo/vehicle-advertisement/internal/repository"
)

// stepClock advances one second on every call so ordering by timestamp
// is deterministic.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ListingEvent
	err    error
}

func (p *recordingPublisher) PublishListingEvent(_ context.Context, ev queue.ListingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	svc      *Service
	dealers  *repository.MemoryDealerStore
	listings *repository.MemoryListingStore
	events   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		dealers:  repository.NewMemoryDealerStore(),
		listings: repository.NewMemoryListingStore(),
		events:   &recordingPublisher{},
	}
	f.svc = New(f.dealers, f.listings, WithClock(newStepClock().Now), WithEvents(f.events))
	return f
}

func (f *fixture) dealer(t *testing.T, name string, limit int) *model.Dealer {
	t.Helper()
	d, err := f.svc.CreateDealer(context.Background(), name, limit)
	if err != nil {
		t.Fatalf("create dealer %q: %v", name, err)
	}
	return d
}

func (f *fixture) listing(t *testing.T, dealerID uuid.UUID, vehicle string, price float64) *model.Listing {
	t.Helper()
	l, err := f.svc.CreateListing(context.Background(), dealerID, vehicle, price)
	if err != nil {
		t.Fatalf("create listing %q: %v", vehicle, err)
	}
	return l
}

func (f *fixture) publish(t *testing.T, id uuid.UUID, strict bool) *PublishResult {
	t.Helper()
	res, err := f.svc.PublishListing(context.Background(), id, strict)
	if err != nil {
		t.Fatalf("publish %s: %v", id, err)
	}
	return res
}

func (f *fixture) stored(t *testing.T, id uuid.UUID) *model.Listing {
	t.Helper()
	l, err := f.listings.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find %s: %v", id, err)
	}
	return l
}

func (f *fixture) publishedCount(t *testing.T, dealerID uuid.UUID) int {
	t.Helper()
	ls, err := f.svc.ListListings(context.Background(), dealerID, model.StatePublished)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	return len(ls)
}

// failingListingStore wraps a ListingStore and fails Save once armed.
type failingListingStore struct {
	repository.ListingStore
	failSave bool
}

var errStoreDown = errors.New("store down")

func (s *failingListingStore) Save(ctx context.Context, listings ...*model.Listing) error {
	if s.failSave {
		return errStoreDown
	}
	return s.ListingStore.Save(ctx, listings...)
}
