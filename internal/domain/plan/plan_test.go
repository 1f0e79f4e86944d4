package plan

import (
	"testing"

	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDay(dayNumber int) DayPlan {
	meals := []MealDetail{
		{MealType: MealTypeBreakfast, RecipeID: "r1", RecipeTitle: "Oats", Calories: 450, ProteinG: 30, CarbsG: 50, FatG: 12},
		{MealType: MealTypeLunch, RecipeID: "r2", RecipeTitle: "Dal Bowl", Calories: 650, ProteinG: 35, CarbsG: 70, FatG: 18},
		{MealType: MealTypeDinner, RecipeID: "r3", RecipeTitle: "Paneer Curry", Calories: 700, ProteinG: 40, CarbsG: 60, FatG: 25},
	}
	day := DayPlan{DayNumber: dayNumber, Meals: meals}
	day.TotalCalories = day.MealCalorieSum()
	return day
}

func TestEnsureTargets(t *testing.T) {
	computed := nutrition.Targets{BMR: 1730, TDEE: 2681.5, TargetCalories: 3081.5}

	t.Run("backfills when absent", func(t *testing.T) {
		p := Plan{Overview: "plan", Days: []DayPlan{validDay(1)}}
		p.EnsureTargets(computed)

		require.NotNil(t, p.NutritionTargets)
		assert.Equal(t, computed, *p.NutritionTargets)
	})

	t.Run("preserves generator-provided targets", func(t *testing.T) {
		fromGenerator := &nutrition.Targets{TargetCalories: 2000}
		p := Plan{Days: []DayPlan{validDay(1)}, NutritionTargets: fromGenerator}
		p.EnsureTargets(computed)

		assert.Same(t, fromGenerator, p.NutritionTargets)
	})
}

func TestValidateShape(t *testing.T) {
	t.Run("valid plan passes", func(t *testing.T) {
		p := Plan{Days: []DayPlan{validDay(1), validDay(2)}}
		assert.NoError(t, p.ValidateShape())
	})

	t.Run("empty plan fails", func(t *testing.T) {
		p := Plan{}
		assert.ErrorIs(t, p.ValidateShape(), ErrNoDays)
	})

	t.Run("day without meals fails", func(t *testing.T) {
		p := Plan{Days: []DayPlan{{DayNumber: 1}}}
		assert.ErrorIs(t, p.ValidateShape(), ErrNoMeals)
	})

	t.Run("non-positive macros fail", func(t *testing.T) {
		day := validDay(1)
		day.Meals[1].ProteinG = 0
		p := Plan{Days: []DayPlan{day}}
		assert.ErrorIs(t, p.ValidateShape(), ErrNonPositiveMacros)
	})
}

func TestAudit(t *testing.T) {
	t.Run("consistent plan yields no warnings", func(t *testing.T) {
		p := Plan{Days: []DayPlan{validDay(1), validDay(2), validDay(3)}}
		assert.Empty(t, p.Audit(3))
	})

	t.Run("day count mismatch flagged", func(t *testing.T) {
		p := Plan{Days: []DayPlan{validDay(1), validDay(2)}}

		warnings := p.Audit(7)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarnDayCountMismatch, warnings[0].Code)
	})

	t.Run("out-of-order day numbers flagged", func(t *testing.T) {
		p := Plan{Days: []DayPlan{validDay(5), validDay(2)}}

		warnings := p.Audit(2)
		require.Len(t, warnings, 2)
		assert.Equal(t, WarnDayNumberMismatch, warnings[0].Code)
		assert.Equal(t, WarnDayNumberMismatch, warnings[1].Code)
	})

	t.Run("gap in day numbering flagged", func(t *testing.T) {
		p := Plan{Days: []DayPlan{validDay(1), validDay(3)}}

		warnings := p.Audit(2)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarnDayNumberMismatch, warnings[0].Code)
	})

	t.Run("small rounding drift tolerated", func(t *testing.T) {
		day := validDay(1)
		day.TotalCalories = day.MealCalorieSum() + 25
		p := Plan{Days: []DayPlan{day}}

		assert.Empty(t, p.Audit(1))
	})

	t.Run("wild divergence flagged", func(t *testing.T) {
		day := validDay(1)
		day.TotalCalories = day.MealCalorieSum() * 2
		p := Plan{Days: []DayPlan{day}}

		warnings := p.Audit(1)
		require.Len(t, warnings, 1)
		assert.Equal(t, WarnCalorieDrift, warnings[0].Code)
	})
}
