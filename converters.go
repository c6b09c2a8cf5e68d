package discovery

import (
	"github.com/localpros/discovery/internal/domain/listing"
	"github.com/localpros/discovery/internal/usecase/markers"
)

func toDomainListing(l Listing) (listing.Listing, error) {
	var lon, lat *float64
	if l.Coordinates != nil {
		lonV, latV := l.Coordinates.Lon, l.Coordinates.Lat
		lon, lat = &lonV, &latV
	}

	catalog := make([]listing.CatalogEntry, 0, len(l.Catalog))
	for _, e := range l.Catalog {
		catalog = append(catalog, listing.CatalogEntry{
			ID:          e.ID,
			Title:       e.Title,
			Category:    e.Category,
			Description: e.Description,
			Price:       e.Price,
			Features:    e.Features,
		})
	}
	if len(catalog) == 0 {
		catalog = nil
	}

	return listing.New(listing.Params{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		Service:     l.Service,
		Category:    l.Category,
		Skills:      l.Skills,
		Location:    l.Location,
		Area:        l.Area,
		City:        l.City,
		Longitude:   lon,
		Latitude:    lat,
		Rating:      l.Rating,
		DistanceKm:  l.DistanceKm,
		PriceBudget: l.PriceBudget,
		Catalog:     catalog,
	})
}

func fromDomainListing(l listing.Listing) Listing {
	out := Listing{
		ID:          l.ID(),
		Title:       l.Title(),
		Description: l.Description(),
		Service:     l.Service(),
		Category:    l.Category(),
		Skills:      l.Skills(),
		Location:    l.Location(),
		Area:        l.Area(),
		City:        l.City(),
		Rating:      l.Rating(),
		DistanceKm:  l.DistanceKm(),
		PriceBudget: l.PriceBudget(),
	}
	if pos := l.Position(); pos != nil {
		out.Coordinates = &Coordinates{Lon: pos.Lon, Lat: pos.Lat}
	}
	for _, e := range l.Catalog() {
		out.Catalog = append(out.Catalog, CatalogEntry{
			ID:          e.ID,
			Title:       e.Title,
			Category:    e.Category,
			Description: e.Description,
			Price:       e.Price,
			Features:    e.Features,
		})
	}
	return out
}

func fromPopupContent(c markers.PopupContent) PopupContent {
	return PopupContent{
		ListingID:  c.ListingID,
		Title:      c.Title,
		Location:   c.Location,
		Rating:     c.Rating,
		PriceLabel: c.PriceLabel,
		HasPrev:    c.HasPrev,
		HasNext:    c.HasNext,
	}
}
