package markers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/localpros/discovery/internal/domain"
	"github.com/localpros/discovery/internal/domain/geo"
	"github.com/localpros/discovery/internal/domain/listing"
)

// --- Mocks ---

type fakeMarker struct {
	id      string
	pos     geo.Point
	content PopupContent
	open    bool
	onClick func()
}

type fakeSurface struct {
	markers   map[*fakeMarker]bool
	createErr error

	flyTo     []geo.Point
	flyZoom   []float64
	fitCalls  int
	lastMin   geo.Point
	lastMax   geo.Point
	created   int
	removed   int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{markers: map[*fakeMarker]bool{}}
}

func (s *fakeSurface) CreateMarker(pos geo.Point, content PopupContent) (Handle, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	m := &fakeMarker{id: content.ListingID, pos: pos, content: content}
	s.markers[m] = true
	s.created++
	return m, nil
}

func (s *fakeSurface) RemoveMarker(h Handle) {
	delete(s.markers, h.(*fakeMarker))
	s.removed++
}

func (s *fakeSurface) SetPopupContent(h Handle, content PopupContent) {
	h.(*fakeMarker).content = content
}

func (s *fakeSurface) OpenPopup(h Handle)  { h.(*fakeMarker).open = true }
func (s *fakeSurface) ClosePopup(h Handle) { h.(*fakeMarker).open = false }

func (s *fakeSurface) FlyTo(pos geo.Point, zoom float64) {
	s.flyTo = append(s.flyTo, pos)
	s.flyZoom = append(s.flyZoom, zoom)
}

func (s *fakeSurface) FitBounds(minPt, maxPt geo.Point, _, _ float64) {
	s.fitCalls++
	s.lastMin, s.lastMax = minPt, maxPt
}

func (s *fakeSurface) BindClick(h Handle, fn func()) { h.(*fakeMarker).onClick = fn }

func (s *fakeSurface) openCount() int {
	n := 0
	for m := range s.markers {
		if m.open {
			n++
		}
	}
	return n
}

func (s *fakeSurface) byID(id string) *fakeMarker {
	for m := range s.markers {
		if m.id == id {
			return m
		}
	}
	return nil
}

// --- Helpers ---

func testConfig() Config {
	return Config{
		DefaultCenter: geo.Point{Lon: 80.2707, Lat: 13.0827},
		DefaultZoom:   11,
		DetailZoom:    15,
		FitPadding:    48,
		FitMaxZoom:    15,
	}
}

func positioned(t *testing.T, id string, lon, lat float64) listing.Listing {
	t.Helper()
	l, err := listing.New(listing.Params{
		ID: id, Title: "Listing " + id,
		Longitude: &lon, Latitude: &lat,
	})
	if err != nil {
		t.Fatalf("build listing: %v", err)
	}
	return l
}

func unpositioned(t *testing.T, id string) listing.Listing {
	t.Helper()
	l, err := listing.New(listing.Params{ID: id, Title: "Listing " + id})
	if err != nil {
		t.Fatalf("build listing: %v", err)
	}
	return l
}

// --- Tests ---

func TestNewStore_NilSurface(t *testing.T) {
	if _, err := NewStore(nil, testConfig(), nil); !errors.Is(err, domain.ErrSurfaceUnavailable) {
		t.Errorf("expected ErrSurfaceUnavailable, got %v", err)
	}
}

func TestSync_CreatesAndRemoves(t *testing.T) {
	surface := newFakeSurface()
	s, err := NewStore(surface, testConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		positioned(t, "b", 80.25, 13.05),
	})
	if s.Len() != 2 || surface.created != 2 {
		t.Fatalf("expected 2 markers, got len=%d created=%d", s.Len(), surface.created)
	}

	s.Sync([]listing.Listing{
		positioned(t, "b", 80.25, 13.05),
		positioned(t, "c", 80.30, 13.10),
	})
	if s.Len() != 2 {
		t.Fatalf("expected 2 markers after re-sync, got %d", s.Len())
	}
	if !s.Has("b") || !s.Has("c") || s.Has("a") {
		t.Errorf("unexpected marker set: a=%v b=%v c=%v", s.Has("a"), s.Has("b"), s.Has("c"))
	}
	if surface.removed != 1 {
		t.Errorf("expected exactly 1 removal, got %d", surface.removed)
	}
}

func TestSync_SurvivingMarkerKeepsIdentity(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})
	before := surface.byID("a")

	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		positioned(t, "b", 80.25, 13.05),
	})
	if after := surface.byID("a"); after != before {
		t.Error("surviving marker must not be recreated on re-sync")
	}
}

func TestSync_SkipsListingsWithoutPosition(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		unpositioned(t, "ghost"),
	})
	if s.Len() != 1 || s.Has("ghost") {
		t.Errorf("unpositioned listing must not get a marker: len=%d", s.Len())
	}
}

func TestSync_FitsBoundsToVisibleExtent(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		positioned(t, "b", 80.30, 13.10),
	})
	if surface.fitCalls != 1 {
		t.Fatalf("expected 1 FitBounds call, got %d", surface.fitCalls)
	}
	if surface.lastMin != (geo.Point{Lon: 80.20, Lat: 13.00}) ||
		surface.lastMax != (geo.Point{Lon: 80.30, Lat: 13.10}) {
		t.Errorf("unexpected extent: %+v %+v", surface.lastMin, surface.lastMax)
	}
}

func TestSync_EmptySetResetsToDefaultView(t *testing.T) {
	surface := newFakeSurface()
	cfg := testConfig()
	s, _ := NewStore(surface, cfg, nil)

	s.Sync(nil)
	if len(surface.flyTo) != 1 {
		t.Fatalf("expected 1 FlyTo call, got %d", len(surface.flyTo))
	}
	if surface.flyTo[0] != cfg.DefaultCenter || surface.flyZoom[0] != cfg.DefaultZoom {
		t.Errorf("expected default view, got %+v zoom %v", surface.flyTo[0], surface.flyZoom[0])
	}
}

func TestSync_RemovedMarkerClearsOpenPopup(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})
	if !s.Focus("a", PopupContent{ListingID: "a"}) {
		t.Fatal("focus on existing marker must succeed")
	}

	s.Sync(nil)
	// Re-adding "a" and focusing "b" must not try to close a stale popup.
	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		positioned(t, "b", 80.25, 13.05),
	})
	if !s.Focus("b", PopupContent{ListingID: "b"}) {
		t.Fatal("focus after re-sync must succeed")
	}
	if surface.openCount() != 1 {
		t.Errorf("expected exactly one open popup, got %d", surface.openCount())
	}
}

func TestFocus_SinglePopupInvariant(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		positioned(t, "b", 80.25, 13.05),
	})

	s.Focus("a", PopupContent{ListingID: "a"})
	s.Focus("b", PopupContent{ListingID: "b"})

	if surface.openCount() != 1 {
		t.Fatalf("expected exactly one open popup, got %d", surface.openCount())
	}
	if m := surface.byID("b"); m == nil || !m.open {
		t.Error("expected popup open on b")
	}
}

func TestFocus_SetsContentAndRecenter(t *testing.T) {
	surface := newFakeSurface()
	cfg := testConfig()
	s, _ := NewStore(surface, cfg, nil)

	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})
	content := PopupContent{ListingID: "a", Title: "Listing a", HasNext: true}
	s.Focus("a", content)

	if m := surface.byID("a"); m.content != content {
		t.Errorf("unexpected popup content: %+v", m.content)
	}
	last := len(surface.flyTo) - 1
	if surface.flyTo[last] != (geo.Point{Lon: 80.20, Lat: 13.00}) || surface.flyZoom[last] != cfg.DetailZoom {
		t.Errorf("expected recenter at detail zoom, got %+v %v",
			surface.flyTo[last], surface.flyZoom[last])
	}
}

func TestFocus_UnknownID(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)
	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})

	if s.Focus("missing", PopupContent{}) {
		t.Error("focus on unknown id must report false")
	}
}

func TestBlur(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)
	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})

	s.Focus("a", PopupContent{ListingID: "a"})
	s.Blur()
	if surface.openCount() != 0 {
		t.Errorf("expected no open popup after blur, got %d", surface.openCount())
	}
	s.Blur() // idempotent
}

func TestClickDispatch(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	var clicked []string
	s.SetClickHandler(func(id string) { clicked = append(clicked, id) })

	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})
	surface.byID("a").onClick()

	if len(clicked) != 1 || clicked[0] != "a" {
		t.Errorf("expected click on a, got %v", clicked)
	}
}

func TestClick_IgnoredAfterMarkerRemoved(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	var clicked []string
	s.SetClickHandler(func(id string) { clicked = append(clicked, id) })

	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})
	m := surface.byID("a")
	s.Sync(nil)

	// A click callback the map library delivers late must be dropped.
	m.onClick()
	if len(clicked) != 0 {
		t.Errorf("expected no dispatch for removed marker, got %v", clicked)
	}
}

func TestCreateMarkerFailureSkipsListing(t *testing.T) {
	surface := newFakeSurface()
	surface.createErr = fmt.Errorf("webgl context lost")
	s, _ := NewStore(surface, testConfig(), nil)

	s.Sync([]listing.Listing{positioned(t, "a", 80.20, 13.00)})
	if s.Len() != 0 {
		t.Errorf("failed creation must not leave an entry, got %d", s.Len())
	}
}

func TestClose(t *testing.T) {
	surface := newFakeSurface()
	s, _ := NewStore(surface, testConfig(), nil)

	var clicked []string
	s.SetClickHandler(func(id string) { clicked = append(clicked, id) })

	s.Sync([]listing.Listing{
		positioned(t, "a", 80.20, 13.00),
		positioned(t, "b", 80.25, 13.05),
	})
	m := surface.byID("a")

	s.Close()
	if s.Len() != 0 || len(surface.markers) != 0 {
		t.Errorf("close must release every marker: len=%d surface=%d", s.Len(), len(surface.markers))
	}

	m.onClick()
	if len(clicked) != 0 {
		t.Errorf("clicks after close must be dropped, got %v", clicked)
	}

	s.Sync([]listing.Listing{positioned(t, "c", 80.30, 13.10)})
	if s.Len() != 0 {
		t.Error("sync after close must be a no-op")
	}
	if s.Focus("c", PopupContent{}) {
		t.Error("focus after close must report false")
	}
}

func TestRenderAndPriceLabel(t *testing.T) {
	l := positioned(t, "a", 80.20, 13.00)
	c := Render(l, 1200, true, false)
	if c.ListingID != "a" || c.Title != "Listing a" {
		t.Errorf("unexpected content: %+v", c)
	}
	if c.PriceLabel != "From ₹1200" {
		t.Errorf("unexpected price label: %q", c.PriceLabel)
	}
	if !c.HasPrev || c.HasNext {
		t.Errorf("unexpected nav flags: prev=%v next=%v", c.HasPrev, c.HasNext)
	}

	if got := PriceLabel(0); got != "" {
		t.Errorf("zero price must render empty label, got %q", got)
	}
}
