package model

import (
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
)

// ListingState is the visibility state of a listing.
type ListingState string

const (
    // StateDraft listings are not visible to buyers.  Every listing starts here.
    StateDraft ListingState = "draft"
    // StatePublished listings count towards the dealer's tier limit.
    StatePublished ListingState = "published"
)

// ParseListingState converts user input into a ListingState.  Matching
// ignores case and surrounding whitespace.
func ParseListingState(s string) (ListingState, error) {
    switch ListingState(strings.ToLower(strings.TrimSpace(s))) {
    case StateDraft:
        return StateDraft, nil
    case StatePublished:
        return StatePublished, nil
    }
    return "", fmt.Errorf("unknown listing state %q", s)
}

// Listing is a vehicle advertisement owned by exactly one dealer.
//
// Fields:
//  ID          – server generated identifier.
//  Dealer      – owning dealer snapshot.
//  Vehicle     – free text vehicle description.
//  Price       – asking price, no currency semantics.
//  CreatedAt   – set once at creation.
//  UpdatedAt   – set on every update or state change (nil until then).
//  PublishedAt – set when published, cleared by unpublish or eviction.
//  State       – draft or published.
type Listing struct {
    ID          uuid.UUID    `json:"id"`           // listings.id
    Dealer      DealerRef    `json:"dealer"`       // listings.dealer_id (+ dealers.name)
    Vehicle     string       `json:"vehicle"`      // listings.vehicle
    Price       float64      `json:"price"`        // listings.price
    CreatedAt   time.Time    `json:"created_at"`   // listings.created_at
    UpdatedAt   *time.Time   `json:"updated_at"`   // listings.updated_at (nullable)
    PublishedAt *time.Time   `json:"published_at"` // listings.published_at (nullable)
    State       ListingState `json:"state"`        // listings.state
}

// Clone returns a deep copy so that stores never share mutable time
// pointers with their callers.
func (l *Listing) Clone() *Listing {
    if l == nil {
        return nil
    }
    c := *l
    if l.UpdatedAt != nil {
        t := *l.UpdatedAt
        c.UpdatedAt = &t
    }
    if l.PublishedAt != nil {
        t := *l.PublishedAt
        c.PublishedAt = &t
    }
    return &c
}

// IsPublished reports whether the listing is currently visible.
func (l *Listing) IsPublished() bool {
    return l.State == StatePublished
}
