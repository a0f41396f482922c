package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
	"github.com/iliyamo/vehicle-advertisement/internal/queue"
	"github.com/iliyamo/vehicle-advertisement/internal/repository"
)

func TestPublishListing_Basic(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 1)
	l := f.listing(t, d.ID, "Civic", 100)

	res := f.publish(t, l.ID, true)
	if res.Listing.State != model.StatePublished || res.Listing.PublishedAt == nil {
		t.Fatalf("expected published listing, got %+v", res.Listing)
	}
	if len(res.Evicted) != 0 {
		t.Fatalf("expected no eviction, got %d", len(res.Evicted))
	}
	if f.stored(t, l.ID).State != model.StatePublished {
		t.Fatalf("expected stored state published")
	}
}

func TestPublishListing_TierLimitOneScenario(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 1)
	a := f.listing(t, d.ID, "A", 1)
	b := f.listing(t, d.ID, "B", 2)

	f.publish(t, a.ID, false)
	res := f.publish(t, b.ID, false)

	if len(res.Evicted) != 1 || res.Evicted[0].ID != a.ID {
		t.Fatalf("expected A to be evicted, got %+v", res.Evicted)
	}
	storedA := f.stored(t, a.ID)
	if storedA.State != model.StateDraft || storedA.PublishedAt != nil {
		t.Fatalf("expected A back in draft with published_at cleared, got %+v", storedA)
	}
	if f.stored(t, b.ID).State != model.StatePublished {
		t.Fatalf("expected B published")
	}

	// B is the only published listing; excluding itself the count is 0.
	again := f.publish(t, b.ID, true)
	if len(again.Evicted) != 0 {
		t.Fatalf("re-publish must not evict, got %+v", again.Evicted)
	}
	if f.publishedCount(t, d.ID) != 1 {
		t.Fatalf("expected exactly one published listing")
	}
}

func TestPublishListing_StrictModeFailsWithoutChanges(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 1)
	a := f.listing(t, d.ID, "A", 1)
	b := f.listing(t, d.ID, "B", 2)
	f.publish(t, a.ID, true)
	before := f.stored(t, a.ID)

	_, err := f.svc.PublishListing(context.Background(), b.ID, true)
	if !errors.Is(err, ErrTierLimitExceeded) {
		t.Fatalf("expected ErrTierLimitExceeded, got %v", err)
	}
	var tle *TierLimitError
	if !errors.As(err, &tle) || tle.TierLimit != 1 || tle.DealerID != d.ID {
		t.Fatalf("expected TierLimitError carrying the limit, got %#v", err)
	}
	if got := f.stored(t, a.ID); !reflect.DeepEqual(got, before) {
		t.Fatalf("A must be untouched: before %+v after %+v", before, got)
	}
	if f.stored(t, b.ID).State != model.StateDraft {
		t.Fatalf("B must stay draft")
	}
}

func TestPublishListing_EvictsOldestPublished(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 2)
	a := f.listing(t, d.ID, "A", 1)
	b := f.listing(t, d.ID, "B", 2)
	c := f.listing(t, d.ID, "C", 3)

	// Publish B before A so creation order and publish order differ.
	f.publish(t, b.ID, false)
	f.publish(t, a.ID, false)
	res := f.publish(t, c.ID, false)

	if len(res.Evicted) != 1 || res.Evicted[0].ID != b.ID {
		t.Fatalf("expected the oldest published listing (B) to be evicted, got %+v", res.Evicted)
	}
	if f.stored(t, a.ID).State != model.StatePublished {
		t.Fatalf("A must stay published")
	}
	if f.publishedCount(t, d.ID) != 2 {
		t.Fatalf("expected published count to equal the tier limit")
	}
}

func TestPublishListing_RepublishRefreshesAgeAndSkipsSelf(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 2)
	a := f.listing(t, d.ID, "A", 1)
	b := f.listing(t, d.ID, "B", 2)
	c := f.listing(t, d.ID, "C", 3)
	f.publish(t, a.ID, false)
	f.publish(t, b.ID, false)

	// Quota is full, but A excludes itself from the count.
	res := f.publish(t, a.ID, true)
	if len(res.Evicted) != 0 {
		t.Fatalf("re-publishing must never evict, got %+v", res.Evicted)
	}
	// A now has the newest published_at, so B is the oldest.
	res = f.publish(t, c.ID, false)
	if len(res.Evicted) != 1 || res.Evicted[0].ID != b.ID {
		t.Fatalf("expected B evicted, got %+v", res.Evicted)
	}
}

func TestPublishListing_OtherDealersDoNotCount(t *testing.T) {
	f := newFixture(t)
	a := f.dealer(t, "A", 1)
	b := f.dealer(t, "B", 1)
	la := f.listing(t, a.ID, "Civic", 1)
	lb := f.listing(t, b.ID, "Civic", 1)
	f.publish(t, la.ID, true)
	f.publish(t, lb.ID, true)
	if f.publishedCount(t, a.ID) != 1 || f.publishedCount(t, b.ID) != 1 {
		t.Fatalf("each dealer should have one published listing")
	}
}

func TestPublishListing_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.PublishListing(context.Background(), uuid.New(), false); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestPublishListing_DealerMissing(t *testing.T) {
	dealers := repository.NewMemoryDealerStore()
	listings := repository.NewMemoryListingStore()
	svc := New(dealers, listings)
	ctx := context.Background()

	orphan := &model.Listing{ID: uuid.New(), Dealer: model.DealerRef{ID: uuid.New()}, Vehicle: "x", State: model.StateDraft}
	noRef := &model.Listing{ID: uuid.New(), Vehicle: "y", State: model.StateDraft}
	if err := listings.Save(ctx, orphan, noRef); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, id := range []uuid.UUID{orphan.ID, noRef.ID} {
		if _, err := svc.PublishListing(ctx, id, false); !errors.Is(err, ErrDealerNotFound) {
			t.Fatalf("listing %s: expected ErrDealerNotFound, got %v", id, err)
		}
	}
}

func TestPublishListing_InconsistentPublishedSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dealer(t, "Acme", 1)
	a := f.listing(t, d.ID, "A", 1)
	b := f.listing(t, d.ID, "B", 2)

	// A claims to be published but has no published_at: nothing can be ranked.
	broken := f.stored(t, a.ID)
	broken.State = model.StatePublished
	broken.PublishedAt = nil
	if err := f.listings.Save(ctx, broken); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := f.svc.PublishListing(ctx, b.ID, false); !errors.Is(err, ErrInternalConsistency) {
		t.Fatalf("expected ErrInternalConsistency, got %v", err)
	}
	if f.stored(t, b.ID).State != model.StateDraft {
		t.Fatalf("failed publish must not write")
	}
}

func TestPublishListing_EvictsDownToLimitWhenOverQuota(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dealer(t, "Acme", 1)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var seeded []*model.Listing
	for i, v := range []string{"A", "B", "C"} {
		l := f.listing(t, d.ID, v, float64(i))
		at := base.Add(time.Duration(i) * time.Minute)
		l.State = model.StatePublished
		l.PublishedAt = &at
		seeded = append(seeded, l)
	}
	if err := f.listings.Save(ctx, seeded...); err != nil {
		t.Fatalf("seed: %v", err)
	}
	target := f.listing(t, d.ID, "D", 9)

	res := f.publish(t, target.ID, false)
	if len(res.Evicted) != 3 {
		t.Fatalf("expected all three to be evicted, got %d", len(res.Evicted))
	}
	if f.publishedCount(t, d.ID) != 1 {
		t.Fatalf("expected published count back at the tier limit")
	}
}

func TestPublishListing_SaveFailureLeavesStoreUnchanged(t *testing.T) {
	dealers := repository.NewMemoryDealerStore()
	listings := &failingListingStore{ListingStore: repository.NewMemoryListingStore()}
	svc := New(dealers, listings, WithClock(newStepClock().Now))
	ctx := context.Background()
	d, _ := svc.CreateDealer(ctx, "Acme", 1)
	a, _ := svc.CreateListing(ctx, d.ID, "A", 1)
	b, _ := svc.CreateListing(ctx, d.ID, "B", 2)
	if _, err := svc.PublishListing(ctx, a.ID, false); err != nil {
		t.Fatalf("publish a: %v", err)
	}

	listings.failSave = true
	if _, err := svc.PublishListing(ctx, b.ID, false); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	storedA, _ := listings.FindByID(ctx, a.ID)
	if storedA.State != model.StatePublished {
		t.Fatalf("eviction must not be persisted when the save fails")
	}
}

func TestPublishListing_EmitsEvictionBeforePublish(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 1)
	a := f.listing(t, d.ID, "A", 1)
	b := f.listing(t, d.ID, "B", 2)
	f.publish(t, a.ID, false)
	f.publish(t, b.ID, false)

	f.events.mu.Lock()
	evs := append([]queue.ListingEvent(nil), f.events.events...)
	f.events.mu.Unlock()
	n := len(evs)
	if n < 2 {
		t.Fatalf("expected events, got %d", n)
	}
	evicted, published := evs[n-2], evs[n-1]
	if evicted.Type != queue.EventListingEvicted || evicted.ListingID != a.ID.String() || evicted.CausedBy != b.ID.String() {
		t.Fatalf("unexpected eviction event: %+v", evicted)
	}
	if published.Type != queue.EventListingPublished || published.ListingID != b.ID.String() {
		t.Fatalf("unexpected publish event: %+v", published)
	}
}

func TestPublishListing_EventFailureDoesNotFailPublish(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	d := f.dealer(t, "Acme", 1)
	l := f.listing(t, d.ID, "A", 1)
	f.publish(t, l.ID, true)
}

func TestUnpublishListing_Idempotent(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 1)
	l := f.listing(t, d.ID, "A", 1)
	f.publish(t, l.ID, true)

	for i := 0; i < 2; i++ {
		got, err := f.svc.UnpublishListing(context.Background(), l.ID)
		if err != nil {
			t.Fatalf("unpublish #%d: %v", i+1, err)
		}
		if got.State != model.StateDraft || got.PublishedAt != nil {
			t.Fatalf("unpublish #%d: unexpected listing %+v", i+1, got)
		}
	}
	stored := f.stored(t, l.ID)
	if stored.State != model.StateDraft || stored.PublishedAt != nil {
		t.Fatalf("unexpected stored listing %+v", stored)
	}
}

func TestUnpublishListing_NotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.UnpublishListing(context.Background(), uuid.New()); !errors.Is(err, ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestPublishListing_ConcurrentPublishesRespectLimit(t *testing.T) {
	for _, strict := range []bool{true, false} {
		f := newFixture(t)
		d := f.dealer(t, "Acme", 2)
		var ids []uuid.UUID
		for i := 0; i < 20; i++ {
			ids = append(ids, f.listing(t, d.ID, "car", float64(i)).ID)
		}

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for _, id := range ids {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := f.svc.PublishListing(context.Background(), id, strict)
				if err != nil && !errors.Is(err, ErrTierLimitExceeded) {
					t.Errorf("publish: %v", err)
					return
				}
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}(id)
		}
		wg.Wait()

		if got := f.publishedCount(t, d.ID); got != 2 {
			t.Fatalf("strict=%v: expected 2 published listings, got %d", strict, got)
		}
		if strict && successes != 2 {
			t.Fatalf("strict publishes: expected 2 successes, got %d", successes)
		}
		if !strict && successes != len(ids) {
			t.Fatalf("evicting publishes: expected all to succeed, got %d", successes)
		}
	}
}

func TestPublishListing_ReadersNeverSeeTornEviction(t *testing.T) {
	f := newFixture(t)
	d := f.dealer(t, "Acme", 1)
	var ids []uuid.UUID
	for i := 0; i < 10; i++ {
		ids = append(ids, f.listing(t, d.ID, "car", float64(i)).ID)
	}
	f.publish(t, ids[0], false)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			n := f.publishedCount(t, d.ID)
			if n != 1 {
				t.Errorf("reader observed %d published listings", n)
				return
			}
		}
	}()
	for round := 0; round < 5; round++ {
		for _, id := range ids {
			if _, err := f.svc.PublishListing(context.Background(), id, false); err != nil {
				t.Fatalf("publish: %v", err)
			}
		}
	}
	close(stop)
	wg.Wait()
}
