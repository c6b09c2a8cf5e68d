package discovery

import (
	"errors"
	"testing"
)

// --- Mocks ---

type stubMarker struct {
	id      string
	pos     Coordinates
	content PopupContent
	open    bool
	onClick func()
}

type stubSurface struct {
	markers map[*stubMarker]bool
	flown   []Coordinates
	zooms   []float64
	fits    int
}

func newStubSurface() *stubSurface {
	return &stubSurface{markers: map[*stubMarker]bool{}}
}

func (s *stubSurface) CreateMarker(pos Coordinates, content PopupContent) (MarkerHandle, error) {
	m := &stubMarker{id: content.ListingID, pos: pos, content: content}
	s.markers[m] = true
	return m, nil
}

func (s *stubSurface) RemoveMarker(h MarkerHandle) { delete(s.markers, h.(*stubMarker)) }

func (s *stubSurface) SetPopupContent(h MarkerHandle, content PopupContent) {
	h.(*stubMarker).content = content
}

func (s *stubSurface) OpenPopup(h MarkerHandle)  { h.(*stubMarker).open = true }
func (s *stubSurface) ClosePopup(h MarkerHandle) { h.(*stubMarker).open = false }

func (s *stubSurface) FlyTo(pos Coordinates, zoom float64) {
	s.flown = append(s.flown, pos)
	s.zooms = append(s.zooms, zoom)
}

func (s *stubSurface) FitBounds(_, _ Coordinates, _, _ float64) { s.fits++ }

func (s *stubSurface) BindClick(h MarkerHandle, fn func()) { h.(*stubMarker).onClick = fn }

func (s *stubSurface) byID(id string) *stubMarker {
	for m := range s.markers {
		if m.id == id {
			return m
		}
	}
	return nil
}

// --- Helpers ---

func coords(lon, lat float64) *Coordinates { return &Coordinates{Lon: lon, Lat: lat} }

func km(v float64) *float64 { return &v }

func sampleListings() []Listing {
	return []Listing{
		{
			ID: "far", Title: "Tambaram Academy", Service: "Cricket Coaching",
			Location: "Tambaram", City: "Chennai",
			Coordinates: coords(80.10, 12.92), Rating: 4.8, DistanceKm: km(18.5),
			Catalog: []CatalogEntry{
				{ID: "s1", Title: "Batting Coach", Category: "Coaching", Price: "1200"},
				{ID: "s2", Title: "Net Bowler", Category: "Match Practice", Price: "700"},
			},
		},
		{
			ID: "near", Title: "Velachery Nets", Service: "Ground Rental",
			Location: "Velachery", City: "Chennai",
			Coordinates: coords(80.22, 12.98), Rating: 4.2, DistanceKm: km(2.1),
			PriceBudget: 1800,
		},
		{
			ID: "mid", Title: "Adyar Physio", Service: "Physiotherapy",
			Location: "Adyar", City: "Chennai",
			Coordinates: coords(80.25, 13.00), Rating: 3.9, DistanceKm: km(6.4),
			PriceBudget: 800,
		},
	}
}

func newEngine(t *testing.T, opts ...Option) (*Engine, *stubSurface) {
	t.Helper()
	surface := newStubSurface()
	e, err := New(surface, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e, surface
}

// --- Tests ---

func TestNew_NilSurface(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrSurfaceUnavailable) {
		t.Errorf("expected ErrSurfaceUnavailable, got %v", err)
	}
}

func TestSetListings_ResultsInDistanceOrder(t *testing.T) {
	e, surface := newEngine(t)
	e.SetListings(sampleListings())

	results := e.Results()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	want := []string{"near", "mid", "far"}
	for i, id := range want {
		if results[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, results[i].ID)
		}
	}
	if len(surface.markers) != 3 {
		t.Errorf("expected 3 markers, got %d", len(surface.markers))
	}
}

func TestSetListings_SkipsInvalid(t *testing.T) {
	e, _ := newEngine(t)
	e.SetListings([]Listing{
		{ID: "ok", Title: "Valid"},
		{ID: "", Title: "No ID"},
	})
	if got := e.Results(); len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("expected only the valid listing, got %d", len(got))
	}
}

func TestSetCriteria_FiltersAndSyncs(t *testing.T) {
	e, surface := newEngine(t)
	e.SetListings(sampleListings())

	if err := e.SetCriteria(Criteria{Category: "Coaching & Training"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := e.Results()
	if len(results) != 1 || results[0].ID != "far" {
		t.Fatalf("expected only far, got %d", len(results))
	}
	if len(surface.markers) != 1 || surface.byID("far") == nil {
		t.Errorf("markers must match the filtered set")
	}

	// Back to identity: everything returns.
	if err := e.SetCriteria(Criteria{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(e.Results()) != 3 {
		t.Errorf("expected all 3 after clearing criteria, got %d", len(e.Results()))
	}
}

func TestSetCriteria_Invalid(t *testing.T) {
	e, _ := newEngine(t)
	err := e.SetCriteria(Criteria{PriceMin: 2000, PriceMax: 500})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Errorf("expected ErrInvalidCriteria, got %v", err)
	}
}

func TestMarkerClickFocuses(t *testing.T) {
	var selected []string
	e, surface := newEngine(t, WithCallbacks(Callbacks{
		OnSelectionChange: func(id string) { selected = append(selected, id) },
	}))
	e.SetListings(sampleListings())

	surface.byID("mid").onClick()

	s := e.Selection()
	if s.Phase != SelectionFocused || s.ListingID != "mid" || s.OrderIndex != 1 {
		t.Errorf("unexpected selection: %+v", s)
	}
	if len(selected) != 1 || selected[0] != "mid" {
		t.Errorf("expected selection callback for mid, got %v", selected)
	}
	if m := surface.byID("mid"); !m.open {
		t.Error("expected popup open on mid")
	}
}

func TestFocus_PopupCarriesContextPrice(t *testing.T) {
	e, surface := newEngine(t)
	e.SetListings(sampleListings())

	// Under the coaching category, far's popup price is the coaching entry
	// (1200), not the overall cheapest (700).
	if err := e.SetCriteria(Criteria{Category: "Coaching & Training"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.Focus("far")

	if got := surface.byID("far").content.PriceLabel; got != "From ₹1200" {
		t.Errorf("expected context-scoped price label, got %q", got)
	}

	price, ok := e.Price("far")
	if !ok || price != 1200 {
		t.Errorf("expected Price 1200, got %v ok=%v", price, ok)
	}
}

func TestNavigation(t *testing.T) {
	e, surface := newEngine(t)
	e.SetListings(sampleListings())

	e.Focus("near")
	if !e.Next() {
		t.Fatal("next must succeed")
	}
	if s := e.Selection(); s.ListingID != "mid" {
		t.Errorf("expected mid, got %q", s.ListingID)
	}

	// Popup nav flags reflect position in the order.
	if c := surface.byID("mid").content; !c.HasPrev || !c.HasNext {
		t.Errorf("middle item must have both nav flags, got %+v", c)
	}

	e.Next()
	if e.Next() {
		t.Error("next at the end must be a no-op")
	}
	if c := surface.byID("far").content; !c.HasPrev || c.HasNext {
		t.Errorf("last item: want prev only, got %+v", c)
	}

	if !e.Prev() {
		t.Fatal("prev must succeed")
	}
	if s := e.Selection(); s.ListingID != "mid" {
		t.Errorf("expected mid after prev, got %q", s.ListingID)
	}
}

func TestDispatch(t *testing.T) {
	var opened []string
	closed := 0
	e, _ := newEngine(t, WithCallbacks(Callbacks{
		OnDetailOpen:  func(l Listing) { opened = append(opened, l.ID) },
		OnDetailClose: func() { closed++ },
	}))
	e.SetListings(sampleListings())
	e.Focus("near")

	if !e.Dispatch(CommandOpenDetail) {
		t.Fatal("open detail dispatch must succeed")
	}
	if s := e.Selection(); s.Phase != SelectionDetailOpen {
		t.Errorf("expected detail open, got %v", s.Phase)
	}
	if len(opened) != 1 || opened[0] != "near" {
		t.Errorf("expected detail-open callback, got %v", opened)
	}

	if !e.Dispatch(CommandCloseDetail) {
		t.Fatal("close detail dispatch must succeed")
	}
	if closed != 1 {
		t.Errorf("expected 1 detail-close callback, got %d", closed)
	}

	if !e.Dispatch(CommandNext) {
		t.Fatal("next dispatch must succeed")
	}
	if !e.Dispatch(CommandPrev) {
		t.Fatal("prev dispatch must succeed")
	}

	if !e.Dispatch(CommandClear) {
		t.Fatal("clear dispatch must succeed")
	}
	if s := e.Selection(); s.Phase != SelectionIdle {
		t.Errorf("expected idle after clear, got %v", s.Phase)
	}

	if e.Dispatch(Command("jump")) {
		t.Error("unknown command must report false")
	}
}

func TestFilterChangeDropsVanishedSelection(t *testing.T) {
	var selected []string
	e, _ := newEngine(t, WithCallbacks(Callbacks{
		OnSelectionChange: func(id string) { selected = append(selected, id) },
	}))
	e.SetListings(sampleListings())

	e.Focus("near")
	if err := e.SetCriteria(Criteria{Category: "Coaching & Training"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s := e.Selection(); s.Phase != SelectionIdle {
		t.Errorf("selection must drop to idle when its listing is filtered out, got %v", s.Phase)
	}
	if selected[len(selected)-1] != "" {
		t.Errorf("expected empty-id selection event, got %v", selected)
	}
}

func TestFilterChangeKeepsSurvivingSelection(t *testing.T) {
	e, _ := newEngine(t)
	e.SetListings(sampleListings())

	e.Focus("far")
	if err := e.SetCriteria(Criteria{Category: "Coaching & Training"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := e.Selection()
	if s.Phase != SelectionFocused || s.ListingID != "far" || s.OrderIndex != 0 {
		t.Errorf("surviving selection must be kept with a fresh index, got %+v", s)
	}
}

func TestDeepLink(t *testing.T) {
	e, _ := newEngine(t, WithDeepLink("mid"))
	e.SetListings(sampleListings())

	s := e.Selection()
	if s.Phase != SelectionFocused || s.ListingID != "mid" {
		t.Errorf("deep link must focus the listing on first load, got %+v", s)
	}

	// The seed applies only once: later listing updates must not re-focus.
	e.ClearSelection()
	e.SetListings(sampleListings())
	if s := e.Selection(); s.Phase != SelectionIdle {
		t.Errorf("deep link must not re-apply, got %+v", s)
	}
}

func TestDeepLink_UnknownIDIgnored(t *testing.T) {
	e, _ := newEngine(t, WithDeepLink("ghost"))
	e.SetListings(sampleListings())
	if s := e.Selection(); s.Phase != SelectionIdle {
		t.Errorf("unknown deep link must leave selection idle, got %+v", s)
	}
}

func TestClose(t *testing.T) {
	e, surface := newEngine(t)
	e.SetListings(sampleListings())
	e.Focus("near")

	e.Close()
	if len(surface.markers) != 0 {
		t.Errorf("close must remove all markers, got %d", len(surface.markers))
	}

	e.SetListings(sampleListings())
	if len(e.Results()) != 0 {
		t.Error("engine must be inert after close")
	}
	if e.Focus("near") || e.Next() || e.Dispatch(CommandNext) {
		t.Error("operations after close must report false")
	}
}

func TestRenderPopup(t *testing.T) {
	l := Listing{ID: "p1", Title: "Academy", Location: "Velachery", Rating: 4.5}
	c := RenderPopup(l, 700, false, true)
	if c.ListingID != "p1" || c.Title != "Academy" || c.Location != "Velachery" {
		t.Errorf("unexpected content: %+v", c)
	}
	if c.PriceLabel != "From ₹700" {
		t.Errorf("unexpected price label: %q", c.PriceLabel)
	}
	if c.HasPrev || !c.HasNext {
		t.Errorf("unexpected nav flags: %+v", c)
	}
}

func TestCriteriaBuilder(t *testing.T) {
	c := NewCriteria().
		Category("Coaching & Training").
		Query("batting").
		Area("Chennai").
		ServiceType("Coaching").
		MaxDistanceKm(10).
		MinRating(4).
		PriceBetween(500, 2000).
		Build()

	if c.Category != "Coaching & Training" || c.Query != "batting" ||
		c.Area != "Chennai" || c.ServiceType != "Coaching" {
		t.Errorf("unexpected selectors: %+v", c)
	}
	if c.MaxDistanceKm != 10 || c.MinRating != 4 || c.PriceMin != 500 || c.PriceMax != 2000 {
		t.Errorf("unexpected limits: %+v", c)
	}
}
