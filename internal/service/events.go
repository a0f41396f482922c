package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/vehicle-advertisement/internal/model"
	"github.com/iliyamo/vehicle-advertisement/internal/queue"
)

// emit forwards events to the publisher.  Failures are logged only; the
// write that produced the event has already been committed.
func (s *Service) emit(ctx context.Context, events ...queue.ListingEvent) {
	if s.events == nil {
		return
	}
	for _, ev := range events {
		if err := s.events.PublishListingEvent(ctx, ev); err != nil {
			log.Printf("events: publish %s for listing=%s dealer=%s failed: %v", ev.Type, ev.ListingID, ev.DealerID, err)
		}
	}
}

func listingEvent(typ string, l *model.Listing, at time.Time) queue.ListingEvent {
	return queue.ListingEvent{
		Type:       typ,
		ListingID:  l.ID.String(),
		DealerID:   l.Dealer.ID.String(),
		DealerName: l.Dealer.Name,
		Vehicle:    l.Vehicle,
		Price:      l.Price,
		State:      string(l.State),
		OccurredAt: at.Format(time.RFC3339),
	}
}

func dealerEvent(d *model.Dealer, at time.Time) queue.ListingEvent {
	return queue.ListingEvent{
		Type:       queue.EventDealerCreated,
		DealerID:   d.ID.String(),
		DealerName: d.Name,
		TierLimit:  d.TierLimit,
		OccurredAt: at.Format(time.RFC3339),
	}
}
