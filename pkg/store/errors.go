package store

import "errors"

// Error taxonomy surfaced to request handlers. Live-channel flows never
// return these to clients; they log and drop instead.
var (
	// ErrNotFound: the referenced user, group or message does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the mutation would violate a relationship invariant
	// (already a contact, already pending, join of a closed or banning
	// group). State is unchanged.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized: the requester lacks the capability for the
	// operation (non-admin admin op, non-sender delete).
	ErrUnauthorized = errors.New("not authorized")
	// ErrDeleted: the message carries a tombstone and is immutable.
	ErrDeleted = errors.New("message is deleted")
)
