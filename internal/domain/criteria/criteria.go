// Package criteria defines the immutable filter criteria value object.
// Every dimension has a defined identity value, so an all-default Criteria
// is the identity filter (sort only, no narrowing).
package criteria

import (
	"fmt"
	"math"
	"strings"

	"github.com/localpros/discovery/internal/domain/category"
)

// Sentinel values for the open-ended dimensions.
const (
	// NoDistanceLimitKm is the "no limit" sentinel: the distance stage only
	// applies when the limit is strictly below it.
	NoDistanceLimitKm = 50.0
	// NoPriceCeiling is the "no upper bound" sentinel: any ceiling at or
	// above it leaves only the lower price bound enforced.
	NoPriceCeiling = 20000.0
)

// Criteria is an immutable filter criteria value object.
type Criteria struct {
	categoryName  string
	searchQuery   string
	area          string
	serviceType   string
	maxDistanceKm float64
	minRating     float64
	priceMin      float64
	priceMax      float64
}

// New validates and normalizes filter criteria. Empty selector strings fall
// back to their identity values; non-positive numeric limits fall back to
// their sentinels.
func New(
	categoryName, searchQuery, area, serviceType string,
	maxDistanceKm, minRating, priceMin, priceMax float64,
) (Criteria, error) {
	if categoryName == "" {
		categoryName = category.All
	}
	if area == "" {
		area = category.All
	}
	if serviceType == "" {
		serviceType = category.All
	}
	if maxDistanceKm <= 0 || math.IsNaN(maxDistanceKm) {
		maxDistanceKm = NoDistanceLimitKm
	}
	if minRating < 0 || math.IsNaN(minRating) {
		minRating = 0
	}
	if priceMin < 0 || math.IsNaN(priceMin) {
		priceMin = 0
	}
	if priceMax <= 0 || math.IsNaN(priceMax) {
		priceMax = NoPriceCeiling
	}
	if priceMin > priceMax {
		return Criteria{}, fmt.Errorf("price range [%v, %v] is inverted", priceMin, priceMax)
	}

	return Criteria{
		categoryName:  categoryName,
		searchQuery:   strings.TrimSpace(searchQuery),
		area:          area,
		serviceType:   serviceType,
		maxDistanceKm: maxDistanceKm,
		minRating:     minRating,
		priceMin:      priceMin,
		priceMax:      priceMax,
	}, nil
}

// Identity returns the criteria value under which every listing passes.
func Identity() Criteria {
	c, _ := New("", "", "", "", 0, 0, 0, 0)
	return c
}

// Category returns the selected category name.
func (c Criteria) Category() string { return c.categoryName }

// SearchQuery returns the trimmed free-text query.
func (c Criteria) SearchQuery() string { return c.searchQuery }

// Area returns the selected area string.
func (c Criteria) Area() string { return c.area }

// ServiceType returns the selected service type.
func (c Criteria) ServiceType() string { return c.serviceType }

// MaxDistanceKm returns the distance ceiling in kilometers.
func (c Criteria) MaxDistanceKm() float64 { return c.maxDistanceKm }

// MinRating returns the rating floor.
func (c Criteria) MinRating() float64 { return c.minRating }

// PriceMin returns the inclusive lower price bound.
func (c Criteria) PriceMin() float64 { return c.priceMin }

// PriceMax returns the inclusive upper price bound.
func (c Criteria) PriceMax() float64 { return c.priceMax }

// FiltersCategory reports whether the category stage narrows the set.
func (c Criteria) FiltersCategory() bool { return !category.IsIdentity(c.categoryName) }

// FiltersQuery reports whether the text search stage narrows the set.
func (c Criteria) FiltersQuery() bool { return c.searchQuery != "" }

// FiltersArea reports whether the area stage narrows the set.
func (c Criteria) FiltersArea() bool { return !category.IsIdentity(c.area) }

// FiltersServiceType reports whether the service-type stage narrows the set.
func (c Criteria) FiltersServiceType() bool { return !category.IsIdentity(c.serviceType) }

// FiltersDistance reports whether the distance stage narrows the set.
func (c Criteria) FiltersDistance() bool { return c.maxDistanceKm < NoDistanceLimitKm }

// FiltersRating reports whether the rating stage narrows the set.
func (c Criteria) FiltersRating() bool { return c.minRating > 0 }

// FiltersPriceFloor reports whether the lower price bound narrows the set.
func (c Criteria) FiltersPriceFloor() bool { return c.priceMin > 0 }

// FiltersPriceCeiling reports whether the upper price bound narrows the set.
func (c Criteria) FiltersPriceCeiling() bool { return c.priceMax < NoPriceCeiling }

// IsIdentity reports whether every dimension is at its no-op value.
func (c Criteria) IsIdentity() bool {
	return !c.FiltersCategory() && !c.FiltersQuery() && !c.FiltersArea() &&
		!c.FiltersServiceType() && !c.FiltersDistance() && !c.FiltersRating() &&
		!c.FiltersPriceFloor() && !c.FiltersPriceCeiling()
}
