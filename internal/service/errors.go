package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds returned by the service.  Callers compare with errors.Is;
// the returned errors wrap these values with the offending identifiers.
var (
	// ErrDealerNotFound means a referenced dealer id does not resolve.
	ErrDealerNotFound = errors.New("dealer not found")
	// ErrDealerAlreadyExists means another dealer has the same name, ignoring case.
	ErrDealerAlreadyExists = errors.New("dealer already exists")
	// ErrListingNotFound means a referenced listing id does not resolve.
	ErrListingNotFound = errors.New("listing not found")
	// ErrListingAlreadyExists means the dealer already has a listing with
	// the same vehicle (ignoring case) and price.
	ErrListingAlreadyExists = errors.New("listing already exists")
	// ErrTierLimitExceeded means a strict publish found the dealer's quota full.
	ErrTierLimitExceeded = errors.New("tier limit has been exceeded")
	// ErrInternalConsistency reports a broken invariant.  It is always fatal
	// to the operation that detected it.
	ErrInternalConsistency = errors.New("internal consistency violation")
	// ErrInvalidArgument means the input violates a core precondition such
	// as an empty name or a tier limit below one.
	ErrInvalidArgument = errors.New("invalid argument")
)

// TierLimitError is returned by a strict publish when the dealer already
// has TierLimit other listings published.
type TierLimitError struct {
	DealerID  uuid.UUID
	TierLimit int
}

func (e *TierLimitError) Error() string {
	return fmt.Sprintf("tier limit has been exceeded for dealer %s, limit: [%d]", e.DealerID, e.TierLimit)
}

// Unwrap lets errors.Is match ErrTierLimitExceeded.
func (e *TierLimitError) Unwrap() error { return ErrTierLimitExceeded }
