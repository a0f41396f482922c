package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
)

// ListListings returns the dealer's listings in the given state, in store
// iteration order.  No match yields an empty slice, never an error.
func (s *Service) ListListings(ctx context.Context, dealerID uuid.UUID, state model.ListingState) ([]*model.Listing, error) {
	all, err := s.listings.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Listing, 0)
	for _, l := range all {
		if l.Dealer.ID == dealerID && l.State == state {
			out = append(out, l)
		}
	}
	return out, nil
}

// ListDealers returns every dealer in store iteration order.
func (s *Service) ListDealers(ctx context.Context) ([]*model.Dealer, error) {
	dealers, err := s.dealers.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if dealers == nil {
		dealers = make([]*model.Dealer, 0)
	}
	return dealers, nil
}
