package service

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
	"github.com/iliyamo/vehicle-advertisement/internal/queue"
)

// PublishResult describes the outcome of a successful publish.
type PublishResult struct {
	Listing *model.Listing   // the listing that is now published
	Evicted []*model.Listing // listings moved back to draft to make room
}

// PublishListing makes a listing visible.
//
// The dealer's other published listings are counted, excluding the target
// itself so that re-publishing never counts against its own quota.  When
// that count has reached the tier limit, a strict caller
// (showErrorIfLimitReached) gets a *TierLimitError and nothing changes.
// Otherwise the oldest published listings (smallest PublishedAt) are moved
// back to draft until the target fits, and the evictions are saved in the
// same store write as the target.
func (s *Service) PublishListing(ctx context.Context, id uuid.UUID, showErrorIfLimitReached bool) (*PublishResult, error) {
	res, err := s.publish(ctx, id, showErrorIfLimitReached)
	if err != nil {
		return nil, err
	}
	at := *res.Listing.PublishedAt
	events := make([]queue.ListingEvent, 0, len(res.Evicted)+1)
	for _, e := range res.Evicted {
		ev := listingEvent(queue.EventListingEvicted, e, at)
		ev.CausedBy = res.Listing.ID.String()
		events = append(events, ev)
	}
	events = append(events, listingEvent(queue.EventListingPublished, res.Listing, at))
	s.emit(ctx, events...)
	return res, nil
}

func (s *Service) publish(ctx context.Context, id uuid.UUID, strict bool) (*PublishResult, error) {
	l, unlock, err := s.lockListing(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if l.Dealer.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: listing %s has no dealer", ErrDealerNotFound, id)
	}
	dealer, err := s.findDealer(ctx, l.Dealer.ID)
	if err != nil {
		return nil, err
	}

	all, err := s.listings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var others []*model.Listing
	for _, o := range all {
		if o.Dealer.ID == dealer.ID && o.IsPublished() && o.ID != l.ID {
			others = append(others, o)
		}
	}

	now := s.timestamp()
	var evicted []*model.Listing
	if len(others) >= dealer.TierLimit {
		if strict {
			return nil, &TierLimitError{DealerID: dealer.ID, TierLimit: dealer.TierLimit}
		}
		evicted, err = evictionCandidates(others, len(others)-dealer.TierLimit+1)
		if err != nil {
			return nil, fmt.Errorf("dealer %s: %w", dealer.ID, err)
		}
		for _, e := range evicted {
			e.State = model.StateDraft
			e.PublishedAt = nil
			e.UpdatedAt = &now
		}
	}

	l.PublishedAt = &now
	l.UpdatedAt = &now
	l.State = model.StatePublished

	writes := append(append([]*model.Listing{}, evicted...), l)
	if err := s.listings.Save(ctx, writes...); err != nil {
		return nil, err
	}
	for _, e := range evicted {
		log.Printf("publish: evicted listing %s of dealer %s to publish %s", e.ID, dealer.ID, l.ID)
	}
	return &PublishResult{Listing: l, Evicted: evicted}, nil
}

// evictionCandidates picks the n oldest published listings.  Ordering is
// PublishedAt ascending, then CreatedAt, then id.  Listings without a
// PublishedAt cannot be ranked; if fewer than n rankable listings exist
// the published set is inconsistent and ErrInternalConsistency is returned.
func evictionCandidates(published []*model.Listing, n int) ([]*model.Listing, error) {
	ranked := make([]*model.Listing, 0, len(published))
	for _, p := range published {
		if p.PublishedAt != nil {
			ranked = append(ranked, p)
		}
	}
	if n < 1 || len(ranked) < n {
		return nil, fmt.Errorf("%w: need %d evictable published listings, found %d", ErrInternalConsistency, n, len(ranked))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.Before(*b.PublishedAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return ranked[:n], nil
}

// UnpublishListing moves a listing back to draft and clears PublishedAt.
// Unpublishing a draft listing succeeds and rewrites the same state.
func (s *Service) UnpublishListing(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	l, unlock, err := s.lockListing(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.timestamp()
	l.PublishedAt = nil
	l.State = model.StateDraft
	l.UpdatedAt = &now
	err = s.listings.Save(ctx, l)
	unlock()
	if err != nil {
		return nil, err
	}
	s.emit(ctx, listingEvent(queue.EventListingUnpublished, l, now))
	return l, nil
}
