package discovery

import (
	"fmt"

	"github.com/localpros/discovery/internal/domain/criteria"
)

// Sentinel values for the open-ended criteria dimensions.
const (
	// NoDistanceLimitKm is the "no limit" distance sentinel: the distance
	// stage only applies below it.
	NoDistanceLimitKm = criteria.NoDistanceLimitKm
	// NoPriceCeiling is the "no upper bound" price sentinel.
	NoPriceCeiling = criteria.NoPriceCeiling
)

// Criteria is the filter criteria assembled from UI controls. The zero
// value is the identity filter: every dimension at its no-op value, so
// applying it only sorts by distance.
type Criteria struct {
	Category      string
	Query         string
	Area          string
	ServiceType   string
	MaxDistanceKm float64
	MinRating     float64
	PriceMin      float64
	PriceMax      float64
}

func (c Criteria) toDomain() (criteria.Criteria, error) {
	dc, err := criteria.New(
		c.Category, c.Query, c.Area, c.ServiceType,
		c.MaxDistanceKm, c.MinRating, c.PriceMin, c.PriceMax,
	)
	if err != nil {
		return criteria.Criteria{}, fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}
	return dc, nil
}

// CriteriaBuilder is a fluent builder for filter criteria.
type CriteriaBuilder struct {
	c Criteria
}

// NewCriteria starts a criteria builder at the identity filter.
func NewCriteria() *CriteriaBuilder {
	return &CriteriaBuilder{}
}

// Category selects a category chip ("All" or empty is a no-op).
func (b *CriteriaBuilder) Category(name string) *CriteriaBuilder {
	b.c.Category = name
	return b
}

// Query sets the free-text search query.
func (b *CriteriaBuilder) Query(q string) *CriteriaBuilder {
	b.c.Query = q
	return b
}

// Area sets the area filter ("All" or empty is a no-op).
func (b *CriteriaBuilder) Area(area string) *CriteriaBuilder {
	b.c.Area = area
	return b
}

// ServiceType sets the service type filter ("All" or empty is a no-op).
func (b *CriteriaBuilder) ServiceType(t string) *CriteriaBuilder {
	b.c.ServiceType = t
	return b
}

// MaxDistanceKm caps result distance; values at or above NoDistanceLimitKm
// leave distance unfiltered.
func (b *CriteriaBuilder) MaxDistanceKm(km float64) *CriteriaBuilder {
	b.c.MaxDistanceKm = km
	return b
}

// MinRating sets the rating floor.
func (b *CriteriaBuilder) MinRating(r float64) *CriteriaBuilder {
	b.c.MinRating = r
	return b
}

// PriceBetween sets the inclusive price band; a max at or above
// NoPriceCeiling leaves only the lower bound enforced.
func (b *CriteriaBuilder) PriceBetween(minPrice, maxPrice float64) *CriteriaBuilder {
	b.c.PriceMin = minPrice
	b.c.PriceMax = maxPrice
	return b
}

// Build returns the assembled criteria.
func (b *CriteriaBuilder) Build() Criteria {
	return b.c
}
