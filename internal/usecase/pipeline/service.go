// Package pipeline reduces a raw listing collection to a relevance-ordered
// result set under several simultaneous filter dimensions.
package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/localpros/discovery/internal/domain/category"
	"github.com/localpros/discovery/internal/domain/criteria"
	"github.com/localpros/discovery/internal/domain/listing"
)

// Pipeline applies the ordered filter stages and the distance sort.
type Pipeline struct {
	prices PriceResolver
}

// New creates a filter pipeline.
func New(prices PriceResolver) *Pipeline {
	return &Pipeline{prices: prices}
}

// Apply narrows the listing set through the stages in order (category, text
// search, area, service type, distance, rating, price) and sorts survivors
// ascending by distance, unknown distances last. It is deterministic, has no
// side effects, and is idempotent on identical inputs: stages at identity
// values are skipped entirely and equal distances keep their original
// relative order.
func (p *Pipeline) Apply(listings []listing.Listing, c criteria.Criteria) []listing.Listing {
	out := make([]listing.Listing, 0, len(listings))
	for _, l := range listings {
		if !matchesCategory(l, c) {
			continue
		}
		if !matchesQuery(l, c) {
			continue
		}
		if !matchesArea(l, c) {
			continue
		}
		if !matchesServiceType(l, c) {
			continue
		}
		if !withinDistance(l, c) {
			continue
		}
		if !meetsRating(l, c) {
			continue
		}
		if !p.withinPrice(l, c) {
			continue
		}
		out = append(out, l)
	}
	sortByDistance(out)
	return out
}

// matchesCategory checks the category keyword set against catalog entries,
// or against the flat service field when the listing has no catalog.
func matchesCategory(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersCategory() {
		return true
	}
	if l.HasCatalog() {
		for _, entry := range l.Catalog() {
			if category.Matches(c.Category(), entry.Category, entry.Title) {
				return true
			}
		}
		return false
	}
	return category.Matches(c.Category(), l.Service())
}

// matchesQuery checks the free-text query against the fixed field set and,
// when a catalog exists, against catalog entry titles, descriptions, and
// features. Any one field matching includes the listing.
func matchesQuery(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersQuery() {
		return true
	}
	q := strings.ToLower(c.SearchQuery())

	fields := []string{
		l.Title(), l.Service(), l.Description(), l.Location(), l.Area(), l.City(),
	}
	fields = append(fields, l.Skills()...)
	for _, f := range fields {
		if containsFold(f, q) {
			return true
		}
	}

	for _, entry := range l.Catalog() {
		if containsFold(entry.Title, q) || containsFold(entry.Description, q) {
			return true
		}
		for _, feat := range entry.Features {
			if containsFold(feat, q) {
				return true
			}
		}
	}
	return false
}

// matchesArea tokenizes the area string on whitespace and commas; any token
// matching location, area, or city includes the listing, so "Chennai"
// matches "Velachery, Chennai".
func matchesArea(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersArea() {
		return true
	}
	tokens := strings.FieldsFunc(strings.ToLower(c.Area()), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	for _, tok := range tokens {
		if containsFold(l.Location(), tok) || containsFold(l.Area(), tok) || containsFold(l.City(), tok) {
			return true
		}
	}
	return false
}

// matchesServiceType uses bidirectional substring containment, deliberately
// loose to tolerate naming variance between feeds.
func matchesServiceType(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersServiceType() {
		return true
	}
	svc := strings.ToLower(l.Service())
	want := strings.ToLower(c.ServiceType())
	if svc == "" || want == "" {
		return false
	}
	return strings.Contains(svc, want) || strings.Contains(want, svc)
}

// withinDistance excludes listings farther than the limit. Unknown distances
// are not excluded here; they only sort last.
func withinDistance(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersDistance() {
		return true
	}
	d := l.DistanceKm()
	return d == nil || *d <= c.MaxDistanceKm()
}

func meetsRating(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersRating() {
		return true
	}
	return l.Rating() >= c.MinRating()
}

// withinPrice checks the resolved price against the inclusive bounds. The
// resolution context is the active query and category, so the price judged
// here is the one the user would see.
func (p *Pipeline) withinPrice(l listing.Listing, c criteria.Criteria) bool {
	if !c.FiltersPriceFloor() && !c.FiltersPriceCeiling() {
		return true
	}
	price := p.prices.Resolve(l, c.SearchQuery(), c.Category())
	if price < c.PriceMin() {
		return false
	}
	if c.FiltersPriceCeiling() && price > c.PriceMax() {
		return false
	}
	return true
}

func sortByDistance(listings []listing.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return sortDistance(listings[i]) < sortDistance(listings[j])
	})
}

// sortDistance treats a missing distance as +Inf: a listing with unknown
// distance must never be presented as nearest.
func sortDistance(l listing.Listing) float64 {
	if d := l.DistanceKm(); d != nil {
		return *d
	}
	return math.Inf(1)
}

func containsFold(s, lowerSub string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerSub)
}
