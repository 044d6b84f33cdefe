package accounting

import "github.com/morrillo/blo-migration/internal/domain/shared"

// Repository errors shared by every entity kind
var (
	// ErrNotFound is returned by FindByOriginalID when no record carries the original ID
	ErrNotFound = shared.ErrNotFound

	// ErrAmbiguousOriginalID is returned by FindByOriginalID when more than one
	// record carries the same original ID
	ErrAmbiguousOriginalID = shared.NewDomainError("AMBIGUOUS_ORIGINAL_ID", "More than one record carries the same original ID")

	// ErrDuplicateOriginalID is returned by Create when the original ID is already taken
	ErrDuplicateOriginalID = shared.NewDomainError("DUPLICATE_ORIGINAL_ID", "A record with this original ID already exists")
)
