package markers

import "github.com/localpros/discovery/internal/domain/geo"

// Handle is an opaque reference to a marker owned by the map surface.
type Handle any

// PopupContent is the renderable content model for a marker popup. It is a
// pure data structure, independent of any map library content API, so hosts
// can template it however they like. Interactive elements are expressed as
// typed commands, never as embedded markup handlers.
type PopupContent struct {
	ListingID  string
	Title      string
	Location   string
	Rating     float64
	PriceLabel string
	HasPrev    bool
	HasNext    bool
}

// Surface is the map rendering port the engine drives. Any map library
// satisfying this surface is substitutable. Implementations are invoked only
// from the store's synchronized entry points.
type Surface interface {
	// CreateMarker places a marker and returns its handle.
	CreateMarker(pos geo.Point, content PopupContent) (Handle, error)
	// RemoveMarker destroys a marker and its popup.
	RemoveMarker(h Handle)
	// SetPopupContent replaces the popup content without resetting marker
	// identity (used to refresh prev/next availability on focus).
	SetPopupContent(h Handle, content PopupContent)
	// OpenPopup opens the marker's popup.
	OpenPopup(h Handle)
	// ClosePopup closes the marker's popup.
	ClosePopup(h Handle)
	// FlyTo recenters the viewport.
	FlyTo(pos geo.Point, zoom float64)
	// FitBounds refits the viewport to the given extent with padding and a
	// maximum zoom ceiling.
	FitBounds(minPt, maxPt geo.Point, padding, maxZoom float64)
	// BindClick subscribes to click events on a marker. The binding lives
	// until the marker is removed.
	BindClick(h Handle, fn func())
}
