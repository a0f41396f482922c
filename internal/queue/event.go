// Package queue defines message payloads exchanged over the message broker
// together with the RabbitMQ publisher and consumer that move them.
package queue

// Event types carried in ListingEvent.Type.
const (
    EventDealerCreated      = "dealer.created"
    EventListingCreated     = "listing.created"
    EventListingUpdated     = "listing.updated"
    EventListingPublished   = "listing.published"
    EventListingUnpublished = "listing.unpublished"
    EventListingEvicted     = "listing.evicted"
)

// DefaultQueueName is the durable queue lifecycle events are routed to.
const DefaultQueueName = "listing.events"

// ListingEvent is published after every successful dealer or listing
// write.  It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary store.
// Dealer events leave the listing fields empty.
type ListingEvent struct {
    Type       string  `json:"type"`
    ListingID  string  `json:"listing_id,omitempty"`
    DealerID   string  `json:"dealer_id"`
    DealerName string  `json:"dealer_name"`
    TierLimit  int     `json:"tier_limit,omitempty"`
    Vehicle    string  `json:"vehicle,omitempty"`
    Price      float64 `json:"price,omitempty"`
    State      string  `json:"state,omitempty"`
    // CausedBy holds the listing whose publish triggered an eviction.
    CausedBy   string  `json:"caused_by,omitempty"`
    OccurredAt string  `json:"occurred_at"`
}
