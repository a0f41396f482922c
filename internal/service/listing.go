package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
	"github.com/iliyamo/vehicle-advertisement/internal/queue"
	"github.com/iliyamo/vehicle-advertisement/internal/repository"
)

// CreateListing adds a draft listing for the dealer.  It fails with
// ErrDealerNotFound when the dealer does not resolve and with
// ErrListingAlreadyExists when the dealer already has a listing for the
// same vehicle (ignoring case) at the same price.
func (s *Service) CreateListing(ctx context.Context, dealerID uuid.UUID, vehicle string, price float64) (*model.Listing, error) {
	if strings.TrimSpace(vehicle) == "" {
		return nil, fmt.Errorf("%w: vehicle is required", ErrInvalidArgument)
	}

	unlock := s.locks.Lock(dealerID)
	defer unlock()

	dealer, err := s.findDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	all, err := s.listings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range all {
		if l.Dealer.ID == dealerID && strings.EqualFold(l.Vehicle, vehicle) && l.Price == price {
			return nil, fmt.Errorf("%w: dealer %s vehicle %q price %v", ErrListingAlreadyExists, dealerID, vehicle, price)
		}
	}

	now := s.timestamp()
	l := &model.Listing{
		ID:        s.newID(),
		Dealer:    dealer.Ref(),
		Vehicle:   vehicle,
		Price:     price,
		CreatedAt: now,
		State:     model.StateDraft,
	}
	if err := s.listings.Save(ctx, l); err != nil {
		return nil, err
	}
	s.emit(ctx, listingEvent(queue.EventListingCreated, l, now))
	return l, nil
}

// UpdateListing replaces the vehicle, price and owning dealer of a
// listing.  An update always puts the listing back into draft so edited
// content is never live without a new publish; PublishedAt keeps its
// previous value.
func (s *Service) UpdateListing(ctx context.Context, id, dealerID uuid.UUID, vehicle string, price float64) (*model.Listing, error) {
	if strings.TrimSpace(vehicle) == "" {
		return nil, fmt.Errorf("%w: vehicle is required", ErrInvalidArgument)
	}

	l, unlock, err := s.lockListing(ctx, id, dealerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	dealer, err := s.findDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	l.UpdatedAt = &now
	l.State = model.StateDraft
	l.Dealer = dealer.Ref()
	l.Vehicle = vehicle
	l.Price = price
	if err := s.listings.Save(ctx, l); err != nil {
		return nil, err
	}
	s.emit(ctx, listingEvent(queue.EventListingUpdated, l, now))
	return l, nil
}

// findListing resolves a listing id, mapping a missing record to ErrListingNotFound.
func (s *Service) findListing(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrListingNotFound, id)
		}
		return nil, err
	}
	return l, nil
}

// lockListing loads a listing and locks its owning dealer plus any extra
// dealers.  The listing is re-read under the lock; if an update moved it to
// another dealer in the meantime the locks are released and the sequence
// retried.  On success the caller owns the returned unlock function.
func (s *Service) lockListing(ctx context.Context, id uuid.UUID, extra ...uuid.UUID) (*model.Listing, func(), error) {
	for {
		peek, err := s.findListing(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		unlock := s.locks.Lock(append([]uuid.UUID{peek.Dealer.ID}, extra...)...)
		l, err := s.findListing(ctx, id)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if l.Dealer.ID == peek.Dealer.ID {
			return l, unlock, nil
		}
		unlock()
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
	}
}
