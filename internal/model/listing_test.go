package model

import (
    "testing"
    "time"
)

func TestParseListingState(t *testing.T) {
    cases := map[string]ListingState{
        "draft":       StateDraft,
        " Published ": StatePublished,
        "PUBLISHED":   StatePublished,
    }
    for in, want := range cases {
        got, err := ParseListingState(in)
        if err != nil {
            t.Fatalf("ParseListingState(%q): %v", in, err)
        }
        if got != want {
            t.Fatalf("ParseListingState(%q) = %q, want %q", in, got, want)
        }
    }
    for _, bad := range []string{"", "archived"} {
        if _, err := ParseListingState(bad); err == nil {
            t.Fatalf("ParseListingState(%q): expected error", bad)
        }
    }
}

func TestListingCloneDoesNotShareTimes(t *testing.T) {
    now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    l := &Listing{Vehicle: "Civic", UpdatedAt: &now, PublishedAt: &now}
    c := l.Clone()
    *c.PublishedAt = now.Add(time.Hour)
    if !l.PublishedAt.Equal(now) {
        t.Fatalf("clone mutated the original published_at")
    }
    if c.UpdatedAt == l.UpdatedAt {
        t.Fatalf("clone shares the updated_at pointer")
    }
    var nilListing *Listing
    if nilListing.Clone() != nil {
        t.Fatalf("clone of nil should be nil")
    }
}
