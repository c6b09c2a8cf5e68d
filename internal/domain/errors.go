// Package domain holds cross-cutting domain errors.
package domain

import "errors"

var (
	// ErrListingNotFound signals a missing listing.
	ErrListingNotFound = errors.New("listing not found")
	// ErrSurfaceUnavailable signals that the map surface failed to
	// initialize. The host decides whether to retry; the engine never does.
	ErrSurfaceUnavailable = errors.New("map surface unavailable")
	// ErrInvalidCriteria signals malformed filter criteria.
	ErrInvalidCriteria = errors.New("invalid criteria")
	// ErrSourceUnavailable signals that the listing source cannot be reached.
	ErrSourceUnavailable = errors.New("listing source unavailable")
)
