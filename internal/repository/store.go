package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
)

// DealerStore persists dealers keyed by identifier.
type DealerStore interface {
	// Save inserts the dealer, overwriting any record with the same ID.
	Save(ctx context.Context, d *model.Dealer) error
	// FindAll returns every dealer in store iteration order.
	FindAll(ctx context.Context) ([]*model.Dealer, error)
	// FindByID returns ErrNotFound when the id does not resolve.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dealer, error)
}

// ListingStore persists listings keyed by identifier.
type ListingStore interface {
	// Save inserts or overwrites the given listings. When more than one
	// listing is passed the writes are atomic: readers observe all of
	// them or none.
	Save(ctx context.Context, listings ...*model.Listing) error
	// FindAll returns every listing in store iteration order.
	FindAll(ctx context.Context) ([]*model.Listing, error)
	// FindByID returns ErrNotFound when the id does not resolve.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
}
