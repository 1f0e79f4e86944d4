// Package planner implements the candidate retrieval and meal-plan assembly
// pipeline: target computation, query augmentation, filtered retrieval with
// reranking, and the generate-validate loop around the text generator.
package planner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mealforge/v2/internal/domain/nutrition"
)

// Free-text requests carry templated phrasing ("I want a 7-day meal plan
// with 3 meals per day") that dilutes both lexical and embedding search.
// These patterns are stripped, case-insensitively, before augmentation.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)I want a \d+-day meal plan`),
	regexp.MustCompile(`(?i)with \d+ meals per day`),
	regexp.MustCompile(`(?i)generate a plan`),
	regexp.MustCompile(`(?i)can you make`),
	regexp.MustCompile(`(?i)please provide`),
	regexp.MustCompile(`(?i)for me`),
}

// AugmentQuery enriches a raw free-text request with profile-derived diet,
// cuisine and nutrition terms. Pure and deterministic; the output is
// treated downstream as a term bag for lexical matching or as a single
// embedding input, so ordering matters only for readability.
func AugmentQuery(rawQuery string, profile nutrition.Profile, targets nutrition.Targets) string {
	cleaned := rawQuery
	for _, pattern := range noisePatterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	var terms []string
	if cleaned != "" {
		terms = append(terms, cleaned)
	}
	if profile.Goal != "" {
		terms = append(terms, profile.Goal.DisplayName())
	}
	terms = append(terms, profile.CuisinePreferences...)
	terms = append(terms, profile.DietaryRestrictions...)
	if targets.TargetCalories > 0 {
		terms = append(terms, fmt.Sprintf("around %.0f kcal per day", targets.TargetCalories))
	}

	return strings.Join(terms, " ")
}
