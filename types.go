package discovery

import "github.com/localpros/discovery/internal/domain"

// Coordinates is a longitude/latitude pair in degrees.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Listing is a professional profile or a job posting. Coordinates is nil
// when the listing has no renderable position; such listings still appear
// in results but never on the map. DistanceKm nil means unknown and sorts
// after every known distance.
type Listing struct {
	ID          string
	Title       string
	Description string
	Service     string
	Category    string
	Skills      []string
	Location    string
	Area        string
	City        string
	Coordinates *Coordinates
	Rating      float64
	DistanceKm  *float64
	PriceBudget float64
	Catalog     []CatalogEntry
}

// CatalogEntry is a priced service offering. Price is raw text: feeds
// deliver both numbers and currency-formatted strings ("₹1,500").
type CatalogEntry struct {
	ID          string
	Title       string
	Category    string
	Description string
	Price       string
	Features    []string
}

// SelectionPhase is the selection lifecycle phase.
type SelectionPhase string

// Selection phases.
const (
	SelectionIdle       SelectionPhase = "idle"
	SelectionFocused    SelectionPhase = "focused"
	SelectionDetailOpen SelectionPhase = "detail_open"
)

// SelectionState is a snapshot of which listing is open. Outside
// SelectionIdle, ListingID is always a member of the current filtered order
// and OrderIndex its position there; OrderIndex is -1 when idle.
type SelectionState struct {
	Phase      SelectionPhase
	ListingID  string
	OrderIndex int
}

// PopupContent is the renderable popup content model, decoupled from any
// map library content API. Interactive popup elements are expressed as
// typed Commands dispatched through Engine.Dispatch, never as embedded
// markup handlers.
type PopupContent struct {
	ListingID  string
	Title      string
	Location   string
	Rating     float64
	PriceLabel string
	HasPrev    bool
	HasNext    bool
}

// Command identifies a popup or navigation action a host forwards to the
// engine via a single delegated click listener.
type Command string

// Popup commands.
const (
	CommandOpenDetail  Command = "open_detail"
	CommandCloseDetail Command = "close_detail"
	CommandPrev        Command = "prev"
	CommandNext        Command = "next"
	CommandClear       Command = "clear"
)

// MarkerHandle is an opaque reference to a marker owned by the map surface.
type MarkerHandle any

// MapSurface is the map rendering port the engine drives. Any map library
// satisfying it is substitutable. The engine funnels every mutation through
// the marker store, so implementations are never called from two code paths
// concurrently.
type MapSurface interface {
	CreateMarker(pos Coordinates, content PopupContent) (MarkerHandle, error)
	RemoveMarker(h MarkerHandle)
	SetPopupContent(h MarkerHandle, content PopupContent)
	OpenPopup(h MarkerHandle)
	ClosePopup(h MarkerHandle)
	FlyTo(pos Coordinates, zoom float64)
	FitBounds(minPt, maxPt Coordinates, padding, maxZoom float64)
	BindClick(h MarkerHandle, fn func())
}

// Callbacks notify the host UI. Any field may be nil.
type Callbacks struct {
	// OnSelectionChange receives the focused listing id, or "" when the
	// selection is cleared; hosts use it to sync a list-view highlight.
	OnSelectionChange func(id string)
	// OnDetailOpen asks the host to render the detail overlay.
	OnDetailOpen func(l Listing)
	// OnDetailClose asks the host to destroy the detail overlay.
	OnDetailClose func()
}

// ErrSurfaceUnavailable is returned by New when the map surface failed to
// initialize. The host decides whether to retry; the engine never does.
var ErrSurfaceUnavailable = domain.ErrSurfaceUnavailable

// ErrInvalidCriteria is returned for malformed filter criteria.
var ErrInvalidCriteria = domain.ErrInvalidCriteria
