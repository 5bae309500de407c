package engagement

import (
	"errors"

	"Vibezone/internal/core/session"
)

var (
	// ErrUnauthenticated indicates a mutation was attempted without a viewer
	ErrUnauthenticated = session.ErrUnauthenticated

	// ErrEdgeExists indicates the store already holds the edge (uniqueness conflict)
	ErrEdgeExists = errors.New("relationship already exists")

	// ErrEdgeNotFound indicates the edge was already absent when removing it
	ErrEdgeNotFound = errors.New("relationship not found")

	// ErrTargetNotFound indicates the video or channel being acted on doesn't exist
	ErrTargetNotFound = errors.New("target not found")

	// ErrActorNotFound indicates the viewer has no profile in the store
	ErrActorNotFound = errors.New("actor profile not found")

	// ErrInvalidTarget indicates an empty or malformed target identifier
	ErrInvalidTarget = errors.New("invalid target")

	// ErrSelfSubscription indicates a viewer tried to subscribe to their own channel
	ErrSelfSubscription = errors.New("cannot subscribe to own channel")
)

// IsIdempotentOutcome reports whether err only says the store is already in
// the requested end state. Such errors are absorbed as success.
func IsIdempotentOutcome(err error) bool {
	return errors.Is(err, ErrEdgeExists) || errors.Is(err, ErrEdgeNotFound)
}
