package search

import (
	"context"

	"github.com/localpros/discovery/internal/domain/criteria"
	"github.com/localpros/discovery/internal/domain/listing"
)

// Source provides the current listing snapshot.
type Source interface {
	Snapshot(ctx context.Context) ([]listing.Listing, error)
	Get(ctx context.Context, id string) (listing.Listing, error)
}

// Filter reduces a listing collection under the given criteria and returns
// the surviving set in distance order.
type Filter interface {
	Apply(listings []listing.Listing, c criteria.Criteria) []listing.Listing
}

// PriceResolver resolves the displayable price for a listing in the current
// search context.
type PriceResolver interface {
	Resolve(l listing.Listing, query, categoryName string) float64
}
