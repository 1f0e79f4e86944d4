package planner

import (
	"sort"
	"strings"

	"github.com/mealforge/v2/internal/domain/recipe"
)

// DefaultCuisineBoost is the default saturating score boost applied to
// candidates whose cuisine matches a user preference. Tunable via
// planner configuration.
const DefaultCuisineBoost = 0.05

// Rerank reorders retrieved candidates, favoring the user's preferred
// cuisines. A candidate whose cuisine (case-insensitive) appears in prefs
// is ranked by min(1, score+boost) instead of its raw score. Ties keep the
// original retrieval order (stable sort), and the result is truncated to
// limit only after boosting, so a preferred candidate just outside the raw
// cut can still make it in.
//
// The input is never mutated and the boost is computed from the stored
// score each time, so reranking its own output yields the same ordering.
func Rerank(candidates []recipe.Candidate, prefs []string, boost float64, limit int) []recipe.Candidate {
	if limit < 0 {
		limit = 0
	}

	preferred := make(map[string]struct{}, len(prefs))
	for _, p := range prefs {
		preferred[strings.ToLower(p)] = struct{}{}
	}

	effective := func(c recipe.Candidate) float64 {
		score := c.ScoreOrZero()
		if _, ok := preferred[strings.ToLower(c.Cuisine)]; ok && c.Cuisine != "" {
			score += boost
			if score > 1.0 {
				score = 1.0
			}
		}
		return score
	}

	ranked := make([]recipe.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return effective(ranked[i]) > effective(ranked[j])
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
