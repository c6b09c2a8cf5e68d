// Package category holds the canonical category → keyword-set table used by
// the filter pipeline and the price resolver.
//
// Two near-duplicate tables existed historically; this one is canonical and
// the variants are not merged, since merging would change match results.
package category

import "strings"

// All is the identity category: it matches every listing.
const All = "All"

var keywordSets = map[string][]string{
	"Coaching & Training": {"coach", "coaching", "training", "trainer", "conditioning"},
	"Grounds & Nets":      {"ground", "pitch", "turf", "nets", "practice"},
	"Equipment & Repair":  {"equipment", "gear", "bat", "kit", "repair", "knocking"},
	"Fitness & Physio":    {"fitness", "physio", "physiotherapy", "strength", "recovery"},
	"Umpiring & Scoring":  {"umpire", "umpiring", "scorer", "scoring", "official"},
	"Video & Analysis":    {"video", "analysis", "analyst", "highlights"},
}

// Keywords returns the lowercase keyword set for a category name. A category
// missing from the table matches by its own lowercased name, so the mapping
// stays total for categories added upstream before this table catches up.
func Keywords(name string) []string {
	if kws, ok := keywordSets[name]; ok {
		return kws
	}
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil
	}
	return []string{name}
}

// IsIdentity reports whether the category name is the no-op value.
func IsIdentity(name string) bool {
	return name == "" || name == All
}

// Matches reports whether any keyword of the category substring-matches any
// of the given fields, case-insensitively. The identity category matches
// everything.
func Matches(name string, fields ...string) bool {
	if IsIdentity(name) {
		return true
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		lower := strings.ToLower(field)
		for _, kw := range Keywords(name) {
			if kw != "" && strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
