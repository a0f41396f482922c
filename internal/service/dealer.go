package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
	"github.com/iliyamo/vehicle-advertisement/internal/repository"
)

// CreateDealer registers a new dealer.  It fails with
// ErrDealerAlreadyExists when any existing dealer has the same name
// ignoring case.
func (s *Service) CreateDealer(ctx context.Context, name string, tierLimit int) (*model.Dealer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: dealer name is required", ErrInvalidArgument)
	}
	if tierLimit < 1 {
		return nil, fmt.Errorf("%w: tier limit must be at least 1, got %d", ErrInvalidArgument, tierLimit)
	}

	s.dealerNames.Lock()
	defer s.dealerNames.Unlock()

	existing, err := s.dealers.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range existing {
		if strings.EqualFold(d.Name, name) {
			return nil, fmt.Errorf("%w: %q", ErrDealerAlreadyExists, name)
		}
	}

	d := &model.Dealer{ID: s.newID(), Name: name, TierLimit: tierLimit}
	if err := s.dealers.Save(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrDealerAlreadyExists, name)
		}
		return nil, err
	}
	s.emit(ctx, dealerEvent(d, s.timestamp()))
	return d, nil
}

// findDealer resolves a dealer id, mapping a missing record to ErrDealerNotFound.
func (s *Service) findDealer(ctx context.Context, id uuid.UUID) (*model.Dealer, error) {
	d, err := s.dealers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDealerNotFound, id)
		}
		return nil, err
	}
	return d, nil
}
