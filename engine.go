package discovery

import (
	"time"

	"go.uber.org/zap"

	"github.com/localpros/discovery/internal/domain/criteria"
	"github.com/localpros/discovery/internal/domain/geo"
	"github.com/localpros/discovery/internal/domain/listing"
	"github.com/localpros/discovery/internal/metrics"
	"github.com/localpros/discovery/internal/usecase/markers"
	"github.com/localpros/discovery/internal/usecase/pipeline"
	"github.com/localpros/discovery/internal/usecase/pricing"
	selectionuc "github.com/localpros/discovery/internal/usecase/selection"
)

// Engine keeps the map and the list in lockstep: it owns the filtered
// order, the marker store, and the selection state machine, and pushes
// changes out through the host callbacks.
//
// The engine is not safe for concurrent use: drive it from a single
// goroutine, the way a UI event loop does. Every operation completes fully
// before returning, so a click handler never observes a half-synced marker
// set.
type Engine struct {
	log    *zap.Logger
	pipe   *pipeline.Pipeline
	prices *pricing.Resolver
	store  *markers.Store
	ctrl   *selectionuc.Controller

	raw   []listing.Listing
	crit  criteria.Criteria
	order []listing.Listing

	commands map[Command]func() bool
	deepLink string
	seeded   bool
	closed   bool
}

// New creates an engine over an initialized map surface. A nil surface
// yields ErrSurfaceUnavailable, the distinct failure signal a host renders
// as a fallback view with its own retry affordance.
func New(surface MapSurface, opts ...Option) (*Engine, error) {
	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}

	cfg := defaultEngineConfig()
	for _, o := range opts {
		o(&cfg)
	}

	e := &Engine{
		log:      cfg.log,
		prices:   pricing.NewResolver(),
		crit:     criteria.Identity(),
		deepLink: cfg.deepLink,
	}
	e.pipe = pipeline.New(e.prices)

	store, err := markers.NewStore(surfaceAdapter{s: surface}, markers.Config{
		DefaultCenter: geo.Point{Lon: cfg.viewport.Center.Lon, Lat: cfg.viewport.Center.Lat},
		DefaultZoom:   cfg.viewport.Zoom,
		DetailZoom:    cfg.viewport.DetailZoom,
		FitPadding:    cfg.viewport.FitPadding,
		FitMaxZoom:    cfg.viewport.FitMaxZoom,
	}, cfg.log)
	if err != nil {
		return nil, err
	}
	e.store = store

	e.ctrl = selectionuc.New(orderSource{e: e}, presenter{e: e}, selectionuc.Callbacks{
		SelectionChanged: cfg.callbacks.OnSelectionChange,
		DetailOpened: func(l listing.Listing) {
			if cfg.callbacks.OnDetailOpen != nil {
				cfg.callbacks.OnDetailOpen(fromDomainListing(l))
			}
		},
		DetailClosed: cfg.callbacks.OnDetailClose,
	}, cfg.log)

	store.SetClickHandler(func(id string) { e.Focus(id) })

	e.commands = map[Command]func() bool{
		CommandOpenDetail:  e.OpenDetail,
		CommandCloseDetail: e.CloseDetail,
		CommandPrev:        e.Prev,
		CommandNext:        e.Next,
		CommandClear:       func() bool { e.ClearSelection(); return true },
	}

	return e, nil
}

// SetListings replaces the raw listing collection wholesale and re-derives
// the filtered order, markers, and selection. Listings failing validation
// (missing id or title) are skipped, not fatal.
func (e *Engine) SetListings(items []Listing) {
	if e.closed {
		return
	}
	raw := make([]listing.Listing, 0, len(items))
	for _, item := range items {
		l, err := toDomainListing(item)
		if err != nil {
			e.log.Debug("listing skipped", zap.String("listing_id", item.ID), zap.Error(err))
			continue
		}
		raw = append(raw, l)
	}
	e.raw = raw
	e.refresh()
}

// SetCriteria applies new filter criteria and re-derives everything below
// it. Safe to call on every keystroke.
func (e *Engine) SetCriteria(c Criteria) error {
	if e.closed {
		return nil
	}
	dc, err := c.toDomain()
	if err != nil {
		return err
	}
	e.crit = dc
	e.refresh()
	return nil
}

// refresh recomputes the filtered order, syncs markers, and revalidates the
// selection, in that order. The deep-link seed is attempted exactly once,
// after the first sync over a non-empty collection.
func (e *Engine) refresh() {
	start := time.Now()
	e.order = e.pipe.Apply(e.raw, e.crit)
	metrics.ObserveFilter(time.Since(start), len(e.order))

	e.store.Sync(e.order)
	e.ctrl.Revalidate()

	if !e.seeded && len(e.raw) > 0 {
		e.seeded = true
		if e.deepLink != "" {
			e.ctrl.Focus(e.deepLink)
		}
	}
}

// Results returns the current filtered order.
func (e *Engine) Results() []Listing {
	out := make([]Listing, len(e.order))
	for i, l := range e.order {
		out[i] = fromDomainListing(l)
	}
	return out
}

// Price returns the resolved price of a listing in the current search
// context. Hosts use it to render list rows consistently with popups.
func (e *Engine) Price(id string) (float64, bool) {
	for _, l := range e.order {
		if l.ID() == id {
			return e.prices.Resolve(l, e.crit.SearchQuery(), e.crit.Category()), true
		}
	}
	return 0, false
}

// Selection returns the current selection snapshot.
func (e *Engine) Selection() SelectionState {
	s := e.ctrl.State()
	return SelectionState{
		Phase:      SelectionPhase(s.Phase()),
		ListingID:  s.ListingID(),
		OrderIndex: s.OrderIndex(),
	}
}

// Focus selects a listing by id (marker or list-row click). Focusing a
// listing outside the current filtered order is a no-op.
func (e *Engine) Focus(id string) bool {
	if e.closed {
		return false
	}
	return e.ctrl.Focus(id)
}

// Next focuses the next listing in the filtered order; a no-op at the last
// index (buttons disable, never wrap).
func (e *Engine) Next() bool {
	if e.closed {
		return false
	}
	return e.ctrl.Next()
}

// Prev focuses the previous listing; a no-op at index 0.
func (e *Engine) Prev() bool {
	if e.closed {
		return false
	}
	return e.ctrl.Prev()
}

// OpenDetail opens the detail view for the focused listing.
func (e *Engine) OpenDetail() bool {
	if e.closed {
		return false
	}
	return e.ctrl.OpenDetail()
}

// CloseDetail closes the detail view and restores the same marker's popup,
// recentered on the map.
func (e *Engine) CloseDetail() bool {
	if e.closed {
		return false
	}
	return e.ctrl.CloseDetail()
}

// ClearSelection drops any selection to idle and closes the open popup.
func (e *Engine) ClearSelection() {
	if e.closed {
		return
	}
	e.ctrl.Reset()
}

// Dispatch routes a typed popup command through the handler table. Unknown
// commands are ignored and reported false.
func (e *Engine) Dispatch(cmd Command) bool {
	if e.closed {
		return false
	}
	fn, ok := e.commands[cmd]
	if !ok {
		e.log.Debug("unknown popup command", zap.String("command", string(cmd)))
		return false
	}
	return fn()
}

// Close releases all markers, popups, and click bindings. Mandatory on host
// view unmount; the engine is unusable afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.ctrl.Reset()
	e.store.Close()
	e.raw = nil
	e.order = nil
	e.closed = true
}

// RenderPopup builds popup content for a listing. Pure: usable by hosts to
// render list rows or previews without touching marker lifecycle.
func RenderPopup(l Listing, price float64, hasPrev, hasNext bool) PopupContent {
	return PopupContent{
		ListingID:  l.ID,
		Title:      l.Title,
		Location:   l.Location,
		Rating:     l.Rating,
		PriceLabel: markers.PriceLabel(price),
		HasPrev:    hasPrev,
		HasNext:    hasNext,
	}
}

// surfaceAdapter bridges the public MapSurface to the marker store's port.
type surfaceAdapter struct {
	s MapSurface
}

func (a surfaceAdapter) CreateMarker(pos geo.Point, content markers.PopupContent) (markers.Handle, error) {
	return a.s.CreateMarker(Coordinates{Lon: pos.Lon, Lat: pos.Lat}, fromPopupContent(content))
}

func (a surfaceAdapter) RemoveMarker(h markers.Handle) { a.s.RemoveMarker(h) }

func (a surfaceAdapter) SetPopupContent(h markers.Handle, content markers.PopupContent) {
	a.s.SetPopupContent(h, fromPopupContent(content))
}

func (a surfaceAdapter) OpenPopup(h markers.Handle)  { a.s.OpenPopup(h) }
func (a surfaceAdapter) ClosePopup(h markers.Handle) { a.s.ClosePopup(h) }

func (a surfaceAdapter) FlyTo(pos geo.Point, zoom float64) {
	a.s.FlyTo(Coordinates{Lon: pos.Lon, Lat: pos.Lat}, zoom)
}

func (a surfaceAdapter) FitBounds(minPt, maxPt geo.Point, padding, maxZoom float64) {
	a.s.FitBounds(
		Coordinates{Lon: minPt.Lon, Lat: minPt.Lat},
		Coordinates{Lon: maxPt.Lon, Lat: maxPt.Lat},
		padding, maxZoom,
	)
}

func (a surfaceAdapter) BindClick(h markers.Handle, fn func()) { a.s.BindClick(h, fn) }

// orderSource exposes the live filtered order to the selection controller.
type orderSource struct {
	e *Engine
}

func (o orderSource) Order() []listing.Listing { return o.e.order }

// presenter renders focus changes onto the marker store with a freshly
// resolved, context-scoped price.
type presenter struct {
	e *Engine
}

func (p presenter) Focus(l listing.Listing, hasPrev, hasNext bool) bool {
	price := p.e.prices.Resolve(l, p.e.crit.SearchQuery(), p.e.crit.Category())
	return p.e.store.Focus(l.ID(), markers.Render(l, price, hasPrev, hasNext))
}

func (p presenter) Blur() { p.e.store.Blur() }
