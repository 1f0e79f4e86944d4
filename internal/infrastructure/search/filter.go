// Package search holds behavior shared by the retrieval backends: the
// metadata filter and the headroom fetch limit.
package search

import (
	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// DefaultCandidateCeiling caps the headroom fetch regardless of the
// requested limit.
const DefaultCandidateCeiling = 30

// PassesFilter reports whether a candidate survives the metadata filter:
// at least one matching dietary tag when restrictions are given, and none
// of the excluded allergens under any circumstances.
func PassesFilter(c recipe.Candidate, filter outbound.SearchFilter) bool {
	if c.ContainsAllergen(filter.ExcludeAllergens) {
		return false
	}
	return c.HasAnyDietaryTag(filter.DietaryRestrictions)
}

// FetchLimit returns the number of candidates a backend should fetch for
// a requested limit: twice the limit for reranker headroom, capped at the
// ceiling.
func FetchLimit(limit, ceiling int) int {
	if limit <= 0 {
		limit = 1
	}
	if ceiling <= 0 {
		ceiling = DefaultCandidateCeiling
	}
	fetch := limit * 2
	if fetch > ceiling {
		fetch = ceiling
	}
	return fetch
}
