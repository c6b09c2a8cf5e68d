// Package markers owns the map-library marker objects keyed by listing id
// and keeps them in sync with the filtered listing set.
package markers

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/localpros/discovery/internal/domain"
	"github.com/localpros/discovery/internal/domain/geo"
	"github.com/localpros/discovery/internal/domain/listing"
	"github.com/localpros/discovery/internal/metrics"
)

// Config holds viewport defaults.
type Config struct {
	DefaultCenter geo.Point
	DefaultZoom   float64
	DetailZoom    float64
	FitPadding    float64
	FitMaxZoom    float64
}

type entry struct {
	handle Handle
	pos    geo.Point
}

// Store maps listing ids to marker handles. All map-surface mutations are
// funneled through its entry points under a single mutex, so a re-sync can
// never interleave with a click-driven mutation.
type Store struct {
	mu      sync.Mutex
	surface Surface
	cfg     Config
	log     *zap.Logger

	entries map[string]entry
	open    string // listing id of the currently open popup, "" if none
	onClick func(id string)
	closed  bool
}

// NewStore creates a marker store over an initialized map surface.
// A nil surface is the distinct initialization failure the host must handle.
func NewStore(surface Surface, cfg Config, log *zap.Logger) (*Store, error) {
	if surface == nil {
		return nil, domain.ErrSurfaceUnavailable
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		surface: surface,
		cfg:     cfg,
		log:     log,
		entries: make(map[string]entry),
	}, nil
}

// SetClickHandler registers the marker click callback. The handler is
// invoked outside the store lock.
func (s *Store) SetClickHandler(fn func(id string)) {
	s.mu.Lock()
	s.onClick = fn
	s.mu.Unlock()
}

// Sync reconciles markers with the visible listing set: stale markers are
// destroyed, missing ones created, existing ones left untouched so marker
// identity stays stable across re-syncs. Listings without a valid position
// are skipped. The viewport is refit to the visible extent, or reset to the
// default view when the set is empty. Sync completes fully before returning,
// so subsequent click handlers always see the new marker set.
func (s *Store) Sync(visible []listing.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	wanted := make(map[string]struct{}, len(visible))
	for _, l := range visible {
		wanted[l.ID()] = struct{}{}
	}

	for id, e := range s.entries {
		if _, ok := wanted[id]; ok {
			continue
		}
		s.surface.RemoveMarker(e.handle)
		delete(s.entries, id)
		if s.open == id {
			s.open = ""
		}
		metrics.MarkerOpsTotal.WithLabelValues("removed").Inc()
	}

	points := make([]geo.Point, 0, len(visible))
	for _, l := range visible {
		pos := l.Position()
		if pos == nil {
			metrics.MarkerOpsTotal.WithLabelValues("skipped_invalid").Inc()
			s.log.Debug("listing has no renderable position, marker skipped",
				zap.String("listing_id", l.ID()))
			continue
		}
		points = append(points, *pos)
		if _, ok := s.entries[l.ID()]; ok {
			continue
		}
		s.createMarker(l, *pos)
	}

	if minPt, maxPt, ok := geo.Extent(points); ok {
		s.surface.FitBounds(minPt, maxPt, s.cfg.FitPadding, s.cfg.FitMaxZoom)
	} else {
		s.surface.FlyTo(s.cfg.DefaultCenter, s.cfg.DefaultZoom)
	}
}

func (s *Store) createMarker(l listing.Listing, pos geo.Point) {
	h, err := s.surface.CreateMarker(pos, Render(l, 0, false, false))
	if err != nil {
		s.log.Warn("create marker failed",
			zap.String("listing_id", l.ID()), zap.Error(err))
		return
	}
	id := l.ID()
	s.surface.BindClick(h, func() { s.click(id) })
	s.entries[id] = entry{handle: h, pos: pos}
	metrics.MarkerOpsTotal.WithLabelValues("created").Inc()
}

func (s *Store) click(id string) {
	s.mu.Lock()
	fn := s.onClick
	_, known := s.entries[id]
	s.mu.Unlock()
	if known && fn != nil {
		fn(id)
	}
}

// Focus opens the marker's popup with fresh content, closes any other open
// popup (only one popup is ever open), and recenters the viewport at the
// detail zoom. Returns false for an unknown id.
func (s *Store) Focus(id string, content PopupContent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	e, ok := s.entries[id]
	if !ok {
		return false
	}

	if s.open != "" && s.open != id {
		if other, stillThere := s.entries[s.open]; stillThere {
			s.surface.ClosePopup(other.handle)
		}
	}
	s.surface.SetPopupContent(e.handle, content)
	s.surface.OpenPopup(e.handle)
	s.open = id
	s.surface.FlyTo(e.pos, s.cfg.DetailZoom)
	return true
}

// Blur closes the open popup, if any.
func (s *Store) Blur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.open == "" {
		return
	}
	if e, ok := s.entries[s.open]; ok {
		s.surface.ClosePopup(e.handle)
	}
	s.open = ""
}

// Has reports whether a marker exists for the listing id.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[id]
	return ok
}

// Len returns the number of live markers.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close releases every marker, popup, and click binding. The store is
// unusable afterwards. Release is mandatory on host teardown.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for id, e := range s.entries {
		s.surface.RemoveMarker(e.handle)
		delete(s.entries, id)
		metrics.MarkerOpsTotal.WithLabelValues("removed").Inc()
	}
	s.open = ""
	s.onClick = nil
	s.closed = true
}

// Render builds the popup content model for a listing. It is a pure
// function so content can be tested independently of marker lifecycle.
func Render(l listing.Listing, price float64, hasPrev, hasNext bool) PopupContent {
	return PopupContent{
		ListingID:  l.ID(),
		Title:      l.Title(),
		Location:   l.Location(),
		Rating:     l.Rating(),
		PriceLabel: PriceLabel(price),
		HasPrev:    hasPrev,
		HasNext:    hasNext,
	}
}

// PriceLabel formats a resolved price for display; non-positive prices
// render as an empty label.
func PriceLabel(price float64) string {
	if price <= 0 {
		return ""
	}
	return fmt.Sprintf("From ₹%.0f", price)
}
