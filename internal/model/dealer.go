package model

import "github.com/google/uuid"

// Dealer represents a vehicle dealer that owns listings.  A dealer may
// keep at most TierLimit listings published at the same time.  Dealers
// are created once and never updated or deleted.
//
// Fields:
//  ID        – server generated identifier.
//  Name      – display name, unique across dealers ignoring case.
//  TierLimit – maximum number of simultaneously published listings (>= 1).
type Dealer struct {
    ID        uuid.UUID `json:"id"`         // dealers.id
    Name      string    `json:"name"`       // dealers.name
    TierLimit int       `json:"tier_limit"` // dealers.tier_limit
}

// Ref returns the reference snapshot attached to the dealer's listings.
func (d Dealer) Ref() DealerRef {
    return DealerRef{ID: d.ID, Name: d.Name}
}

// DealerRef is the owning dealer snapshot carried by a listing.  A zero
// ID means the listing has no dealer reference.
type DealerRef struct {
    ID   uuid.UUID `json:"id"`
    Name string    `json:"name"`
}
