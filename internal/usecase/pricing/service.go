// Package pricing resolves the displayable price of a listing from its
// service catalog, scoped to the active search context.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/localpros/discovery/internal/domain/category"
	"github.com/localpros/discovery/internal/domain/listing"
)

// DefaultPrice is the fallback when a listing has neither a usable catalog
// price nor a price budget.
const DefaultPrice = 500

// Resolver computes the lowest applicable price for a listing. A price shown
// to the user is always scoped to what they are currently looking at, so the
// resolver must be re-invoked whenever the query or category changes.
type Resolver struct{}

// NewResolver creates a price resolver.
func NewResolver() *Resolver { return &Resolver{} }

// Resolve returns the lowest applicable price for the listing given the
// active search query and category. It is total: malformed catalog prices
// parse to 0 and fall through to the budget or DefaultPrice.
func (r *Resolver) Resolve(l listing.Listing, query, categoryName string) float64 {
	if !l.HasCatalog() {
		return fallbackPrice(l)
	}

	candidates := relevantEntries(l.Catalog(), query, categoryName)
	if len(candidates) == 0 {
		// Relevance filtering must never yield "no price available" when
		// prices exist: fall back to the full catalog.
		candidates = l.Catalog()
	}

	lowest := 0.0
	for _, entry := range candidates {
		price := ParsePrice(entry.Price)
		if price > 0 && (lowest == 0 || price < lowest) {
			lowest = price
		}
	}
	if lowest > 0 {
		return lowest
	}
	return fallbackPrice(l)
}

// relevantEntries narrows the catalog to the active context: the search
// query wins over the category, which wins over "everything".
func relevantEntries(entries []listing.CatalogEntry, query, categoryName string) []listing.CatalogEntry {
	query = strings.TrimSpace(strings.ToLower(query))

	switch {
	case query != "":
		var matched []listing.CatalogEntry
		for _, e := range entries {
			if containsFold(e.Title, query) || containsFold(e.Category, query) ||
				containsFold(e.Description, query) {
				matched = append(matched, e)
			}
		}
		return matched
	case !category.IsIdentity(categoryName):
		var matched []listing.CatalogEntry
		for _, e := range entries {
			if category.Matches(categoryName, e.Title, e.Category) {
				matched = append(matched, e)
			}
		}
		return matched
	default:
		return entries
	}
}

func containsFold(s, lowerSub string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerSub)
}

func fallbackPrice(l listing.Listing) float64 {
	if l.PriceBudget() > 0 {
		return l.PriceBudget()
	}
	return DefaultPrice
}

var priceNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePrice extracts the first numeric value from a raw catalog price.
// Thousands separators are dropped first, so "₹1,500" and "Rs. 2,000" both
// parse; anything without a number yields 0.
func ParsePrice(raw string) float64 {
	m := priceNumber.FindString(strings.ReplaceAll(raw, ",", ""))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
