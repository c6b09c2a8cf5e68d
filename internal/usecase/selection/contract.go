package selection

import "github.com/localpros/discovery/internal/domain/listing"

// OrderSource exposes the current filtered, distance-ordered listing set.
// Navigation always reads it at call time, never from a snapshot, since the
// user may change filters while a popup is open.
type OrderSource interface {
	Order() []listing.Listing
}

// Presenter moves the map focus to a listing's marker. Focus returns false
// when the listing has no marker (e.g. no renderable position).
type Presenter interface {
	Focus(l listing.Listing, hasPrev, hasNext bool) bool
	Blur()
}

// Callbacks notify the host UI of selection changes. Any field may be nil.
type Callbacks struct {
	// SelectionChanged receives the focused listing id, or "" when the
	// selection is cleared. Hosts use it to sync a list-view highlight.
	SelectionChanged func(id string)
	// DetailOpened asks the host to render the detail overlay.
	DetailOpened func(l listing.Listing)
	// DetailClosed asks the host to destroy the detail overlay.
	DetailClosed func()
}
