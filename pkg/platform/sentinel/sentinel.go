package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and the service translates them into domain errors.
//
// Malformed snapshot content is never one of these: stores recover from it
// locally and hand back whatever records survived.
var (
	// ErrUnavailable: the snapshot exists but cannot be opened right now
	// (another process holds the database lock).
	ErrUnavailable = errors.New("unavailable")
	// ErrInvalidState: the store was asked for something its configuration
	// cannot provide, such as an unknown backend name.
	ErrInvalidState = errors.New("invalid state")
)
