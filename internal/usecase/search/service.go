// Package search is the server-side derivation service: it applies the
// filter pipeline and price resolution to the current listing snapshot.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/localpros/discovery/internal/domain/criteria"
	"github.com/localpros/discovery/internal/domain/listing"
	"github.com/localpros/discovery/internal/metrics"
)

// Result is a filtered listing with its resolved price.
type Result struct {
	Listing listing.Listing
	Price   float64
}

// Service handles listing search requests.
type Service struct {
	source Source
	filter Filter
	prices PriceResolver
}

// New creates a search service.
func New(source Source, filter Filter, prices PriceResolver) *Service {
	return &Service{source: source, filter: filter, prices: prices}
}

// Search applies the criteria to the current snapshot and resolves a price
// for each surviving listing, scoped to the active query and category.
// Empty results are an ordinary outcome, not an error.
func (s *Service) Search(ctx context.Context, c criteria.Criteria) ([]Result, error) {
	items, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	start := time.Now()
	ordered := s.filter.Apply(items, c)
	metrics.ObserveFilter(time.Since(start), len(ordered))

	results := make([]Result, len(ordered))
	for i, l := range ordered {
		results[i] = Result{
			Listing: l,
			Price:   s.prices.Resolve(l, c.SearchQuery(), c.Category()),
		}
	}
	return results, nil
}

// ResolvePrice resolves the price of a single listing in the given context.
func (s *Service) ResolvePrice(ctx context.Context, id, query, categoryName string) (float64, error) {
	l, err := s.source.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get listing %s: %w", id, err)
	}
	return s.prices.Resolve(l, query, categoryName), nil
}
