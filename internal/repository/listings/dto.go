package listings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/localpros/discovery/internal/domain/listing"
)

// listingDTO is the wire shape of a listing snapshot entry.
type listingDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Name        string     `json:"name,omitempty"` // professional feeds use "name"
	Description string     `json:"description,omitempty"`
	Service     string     `json:"service,omitempty"`
	Category    string     `json:"category,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Location    string     `json:"location,omitempty"`
	Area        string     `json:"area,omitempty"`
	City        string     `json:"city,omitempty"`
	Coordinates []float64  `json:"coordinates,omitempty"` // [lon, lat]
	Rating      float64    `json:"rating,omitempty"`
	DistanceKm  *float64   `json:"distanceKm,omitempty"`
	PriceBudget float64    `json:"priceBudget,omitempty"`
	Services    []entryDTO `json:"services,omitempty"`
}

type entryDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       rawPrice `json:"price,omitempty"`
	Features    []string `json:"features,omitempty"`
}

// rawPrice accepts both numeric and string-encoded prices and keeps the raw
// text; parsing to a number happens in the price resolver.
type rawPrice string

func (p *rawPrice) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("unmarshal price string: %w", err)
		}
		*p = rawPrice(s)
		return nil
	}
	*p = rawPrice(strings.TrimSpace(string(b)))
	return nil
}

func (d listingDTO) toDomain() (listing.Listing, error) {
	var lon, lat *float64
	if len(d.Coordinates) == 2 {
		lonV, latV := d.Coordinates[0], d.Coordinates[1]
		lon, lat = &lonV, &latV
	}

	title := d.Title
	if title == "" {
		title = d.Name
	}

	catalog := make([]listing.CatalogEntry, 0, len(d.Services))
	for _, e := range d.Services {
		catalog = append(catalog, listing.CatalogEntry{
			ID:          e.ID,
			Title:       e.Title,
			Category:    e.Category,
			Description: e.Description,
			Price:       string(e.Price),
			Features:    e.Features,
		})
	}
	if len(catalog) == 0 {
		catalog = nil
	}

	return listing.New(listing.Params{
		ID:          d.ID,
		Title:       title,
		Description: d.Description,
		Service:     d.Service,
		Category:    d.Category,
		Skills:      d.Skills,
		Location:    d.Location,
		Area:        d.Area,
		City:        d.City,
		Longitude:   lon,
		Latitude:    lat,
		Rating:      d.Rating,
		DistanceKm:  d.DistanceKm,
		PriceBudget: d.PriceBudget,
		Catalog:     catalog,
	})
}

// DecodeSnapshot parses a JSON array of listings. Entries that fail listing
// validation (missing id or title) are skipped rather than failing the whole
// snapshot; malformed JSON fails outright.
func DecodeSnapshot(data []byte) ([]listing.Listing, error) {
	var dtos []listingDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("decode listing snapshot: %w", err)
	}
	out := make([]listing.Listing, 0, len(dtos))
	for _, d := range dtos {
		l, err := d.toDomain()
		if err != nil {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}
