// Package plan contains the domain model for assembled multi-day meal plans
// and the shape validation applied to generator output.
package plan

import (
	"fmt"
	"math"

	"github.com/mealforge/v2/internal/domain/nutrition"
)

// Meal type labels the generator is instructed to use.
const (
	MealTypeBreakfast = "Breakfast"
	MealTypeLunch     = "Lunch"
	MealTypeDinner    = "Dinner"
	MealTypeSnack     = "Snack"
)

// calorieDriftTolerance is the relative divergence between a day's reported
// total and the sum of its meals above which a warning is raised. The
// generator's own total is preserved either way.
const calorieDriftTolerance = 0.10

// MealDetail is a single meal inside a day plan. All nutrition fields are
// required on the final emitted plan even when sourced from an approximate
// candidate.
type MealDetail struct {
	MealType    string  `json:"meal_type"`
	RecipeID    string  `json:"recipe_id"`
	RecipeTitle string  `json:"recipe_title"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
}

// DayPlan is one day of the plan: 1-indexed day number and its meals.
type DayPlan struct {
	DayNumber     int          `json:"day_number"`
	Meals         []MealDetail `json:"meals"`
	TotalCalories float64      `json:"total_calories"`
}

// MealCalorieSum returns the sum of the constituent meals' calories.
func (d DayPlan) MealCalorieSum() float64 {
	var sum float64
	for _, m := range d.Meals {
		sum += m.Calories
	}
	return sum
}

// Plan is the final structured multi-day output returned to the caller.
// Invariant: NutritionTargets is never nil on a returned plan; the
// assembler backfills it when the generator omits it.
type Plan struct {
	Overview         string             `json:"overview"`
	Days             []DayPlan          `json:"days"`
	NutritionTargets *nutrition.Targets `json:"nutrition_targets,omitempty"`
}

// Warning is a non-fatal quality finding on an assembled plan. Warnings are
// reported to the caller but never block returning the plan.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Warning codes produced by Audit and the planner.
const (
	WarnDayCountMismatch  = "day_count_mismatch"
	WarnDayNumberMismatch = "day_number_mismatch"
	WarnCalorieDrift      = "calorie_drift"
	WarnUnknownRecipeID   = "unknown_recipe_id"
	WarnRetrievalEmpty    = "retrieval_empty"
)

// EnsureTargets backfills the nutrition targets snapshot when the generator
// omitted it, so the non-nil invariant holds on every returned plan.
func (p *Plan) EnsureTargets(computed nutrition.Targets) {
	if p.NutritionTargets == nil {
		t := computed
		p.NutritionTargets = &t
	}
}

// ValidateShape checks the hard requirements on a parsed plan: at least one
// day, and strictly positive calories and macros on every meal. Day-count
// fidelity is deliberately not a hard failure; see Audit.
func (p *Plan) ValidateShape() error {
	if len(p.Days) == 0 {
		return ErrNoDays
	}
	for _, day := range p.Days {
		if len(day.Meals) == 0 {
			return fmt.Errorf("day %d: %w", day.DayNumber, ErrNoMeals)
		}
		for _, m := range day.Meals {
			if m.Calories <= 0 || m.ProteinG <= 0 || m.CarbsG <= 0 || m.FatG <= 0 {
				return fmt.Errorf("day %d, %s: %w", day.DayNumber, m.MealType, ErrNonPositiveMacros)
			}
		}
	}
	return nil
}

// Audit computes the soft quality findings on an assembled plan: day count
// diverging from the request, day numbers that are not contiguous from 1,
// and per-day calorie totals drifting from the sum of the day's meals. The
// generator is the source of truth for its own arithmetic, so drift is
// flagged, never auto-corrected.
func (p *Plan) Audit(requestedDays int) []Warning {
	var warnings []Warning

	if len(p.Days) != requestedDays {
		warnings = append(warnings, Warning{
			Code:    WarnDayCountMismatch,
			Message: fmt.Sprintf("requested %d days, generator produced %d", requestedDays, len(p.Days)),
		})
	}

	for i, day := range p.Days {
		if day.DayNumber != i+1 {
			warnings = append(warnings, Warning{
				Code:    WarnDayNumberMismatch,
				Message: fmt.Sprintf("day at position %d is numbered %d", i+1, day.DayNumber),
			})
		}
	}

	for _, day := range p.Days {
		sum := day.MealCalorieSum()
		if sum == 0 {
			continue
		}
		drift := math.Abs(day.TotalCalories-sum) / sum
		if drift > calorieDriftTolerance {
			warnings = append(warnings, Warning{
				Code: WarnCalorieDrift,
				Message: fmt.Sprintf("day %d total %.0f kcal diverges from meal sum %.0f kcal",
					day.DayNumber, day.TotalCalories, sum),
			})
		}
	}

	return warnings
}
