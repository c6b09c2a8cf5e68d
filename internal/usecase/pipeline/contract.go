package pipeline

import "github.com/localpros/discovery/internal/domain/listing"

// PriceResolver resolves the displayable price for a listing in the current
// search context (query and category).
type PriceResolver interface {
	Resolve(l listing.Listing, query, categoryName string) float64
}
