// Package listing defines the unified listing model: a professional profile
// or a job posting with geographic coordinates and an optional priced
// service catalog.
package listing

import (
	"fmt"
	"math"

	"github.com/localpros/discovery/internal/domain/geo"
)

// CatalogEntry is a single priced service offering attached to a listing.
// Price is kept raw: feeds deliver it both as a number and as a formatted
// currency string ("₹1,500"); parsing happens at resolution time.
type CatalogEntry struct {
	ID          string
	Title       string
	Category    string
	Description string
	Price       string
	Features    []string
}

// Listing is an immutable listing value object.
type Listing struct {
	id          string
	title       string
	description string
	service     string
	category    string
	skills      []string
	location    string
	area        string
	city        string
	position    *geo.Point
	rating      float64
	distanceKm  *float64
	priceBudget float64
	catalog     []CatalogEntry
}

// Params carries the raw fields for constructing a Listing.
type Params struct {
	ID          string
	Title       string
	Description string
	Service     string
	Category    string
	Skills      []string
	Location    string
	Area        string
	City        string
	Longitude   *float64
	Latitude    *float64
	Rating      float64
	DistanceKm  *float64
	PriceBudget float64
	Catalog     []CatalogEntry
}

// New validates and creates a Listing. Malformed optional fields are
// resolved to safe defaults rather than rejected: a non-finite coordinate
// pair leaves the listing without a position, a negative or non-finite
// distance becomes unknown.
func New(p Params) (Listing, error) {
	if p.ID == "" {
		return Listing{}, fmt.Errorf("listing id is required")
	}
	if p.Title == "" {
		return Listing{}, fmt.Errorf("listing %q: title is required", p.ID)
	}

	rating := p.Rating
	if rating < 0 || math.IsNaN(rating) {
		rating = 0
	}

	var position *geo.Point
	if p.Longitude != nil && p.Latitude != nil {
		pt := geo.Point{Lon: *p.Longitude, Lat: *p.Latitude}
		if pt.Valid() {
			position = &pt
		}
	}

	var distance *float64
	if p.DistanceKm != nil {
		d := *p.DistanceKm
		if d >= 0 && !math.IsNaN(d) && !math.IsInf(d, 0) {
			distance = &d
		}
	}

	budget := p.PriceBudget
	if budget < 0 || math.IsNaN(budget) {
		budget = 0
	}

	return Listing{
		id:          p.ID,
		title:       p.Title,
		description: p.Description,
		service:     p.Service,
		category:    p.Category,
		skills:      p.Skills,
		location:    p.Location,
		area:        p.Area,
		city:        p.City,
		position:    position,
		rating:      rating,
		distanceKm:  distance,
		priceBudget: budget,
		catalog:     p.Catalog,
	}, nil
}

// ID returns the unique listing identifier.
func (l Listing) ID() string { return l.id }

// Title returns the display title.
func (l Listing) Title() string { return l.title }

// Description returns the free-text description.
func (l Listing) Description() string { return l.description }

// Service returns the flat service tag.
func (l Listing) Service() string { return l.service }

// Category returns the category tag.
func (l Listing) Category() string { return l.category }

// Skills returns the ordered skill tags.
func (l Listing) Skills() []string { return l.skills }

// Location returns the display location string.
func (l Listing) Location() string { return l.location }

// Area returns the neighbourhood/area name.
func (l Listing) Area() string { return l.area }

// City returns the city name.
func (l Listing) City() string { return l.city }

// Position returns the map position, or nil when the listing has no
// renderable coordinates.
func (l Listing) Position() *geo.Point { return l.position }

// Rating returns the average rating (0 when unrated).
func (l Listing) Rating() float64 { return l.rating }

// DistanceKm returns the distance from the search origin in kilometers,
// or nil when unknown. Unknown distances sort after known ones.
func (l Listing) DistanceKm() *float64 { return l.distanceKm }

// PriceBudget returns the flat fallback price.
func (l Listing) PriceBudget() float64 { return l.priceBudget }

// Catalog returns the ordered service catalog.
func (l Listing) Catalog() []CatalogEntry { return l.catalog }

// HasCatalog reports whether the listing carries a service catalog.
func (l Listing) HasCatalog() bool { return len(l.catalog) > 0 }
