// Package service holds the advertisement core: dealer and listing
// lifecycle, the publication engine that enforces each dealer's tier
// limit, and the read-side queries.
//
// Every write that reads and then modifies a dealer's listings runs under
// that dealer's lock, so two concurrent publishes for the same dealer can
// never both observe free capacity.  Operations on different dealers run
// in parallel.  Reads take no lock and rely on the store's atomic
// multi-listing Save to never see an eviction without its publish.
package service
