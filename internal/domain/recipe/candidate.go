// Package recipe contains the domain model for recipe candidates: read-only
// corpus snapshots produced per retrieval call and handed to the planner.
package recipe

import "strings"

// Candidate is a recipe record eligible for inclusion in a plan. It is a
// snapshot of the corpus at retrieval time; nothing mutates it after the
// store returns it.
//
// Nutrition fields are pointers because corpus data may be incomplete.
type Candidate struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Cuisine      string   `json:"cuisine,omitempty"`
	Calories     *float64 `json:"calories,omitempty"`
	ProteinG     *float64 `json:"protein_g,omitempty"`
	CarbsG       *float64 `json:"carbs_g,omitempty"`
	FatG         *float64 `json:"fat_g,omitempty"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	TimeMinutes  *int     `json:"time_minutes,omitempty"`
	MealTypes    []string `json:"meal_types,omitempty"`
	DietaryTags  []string `json:"dietary_tags,omitempty"`
	Allergens    []string `json:"allergens,omitempty"`

	// Score is the backend relevance score, normalized to [0,1],
	// higher = more relevant. Nil when the backend produced none.
	Score *float64 `json:"score,omitempty"`
}

// ScoreOrZero returns the relevance score, treating absent as zero.
func (c Candidate) ScoreOrZero() float64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// HasAnyDietaryTag reports whether any of the given restrictions appears in
// the candidate's dietary tags. Comparison is case-insensitive; an empty
// restriction set matches everything.
func (c Candidate) HasAnyDietaryTag(restrictions []string) bool {
	if len(restrictions) == 0 {
		return true
	}
	for _, want := range restrictions {
		for _, tag := range c.DietaryTags {
			if strings.EqualFold(tag, want) {
				return true
			}
		}
	}
	return false
}

// ContainsAllergen reports whether the candidate carries any of the given
// allergens, case-insensitively.
func (c Candidate) ContainsAllergen(avoid []string) bool {
	for _, a := range avoid {
		for _, have := range c.Allergens {
			if strings.EqualFold(have, a) {
				return true
			}
		}
	}
	return false
}
