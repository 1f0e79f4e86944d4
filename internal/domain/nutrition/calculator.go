package nutrition

import "math"

// Fixed physiological constants: kcal per gram of macronutrient.
const (
	caloriesPerGramProtein = 4.0
	caloriesPerGramCarbs   = 4.0
	caloriesPerGramFat     = 9.0
)

// MinimumCalories is the hard safety floor for target calories. No goal
// adjustment may push the reported target below it.
const MinimumCalories = 1200.0

// defaultActivityMultiplier is used when the activity level is missing or
// not one of the five enumerated values (lightly_active semantics).
const defaultActivityMultiplier = 1.375

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.20,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.90,
}

var goalAdjustments = map[Goal]float64{
	GoalWeightLoss:          -500,
	GoalBulking:             +400,
	GoalCutting:             -350,
	GoalMaintenance:         0,
	GoalAthleticPerformance: +200,
}

// macroSplit holds per-goal macro ratios; each row sums to 1.0.
type macroSplit struct {
	protein float64
	carbs   float64
	fat     float64
}

var macroSplits = map[Goal]macroSplit{
	GoalWeightLoss:          {protein: 0.35, carbs: 0.35, fat: 0.30},
	GoalBulking:             {protein: 0.30, carbs: 0.40, fat: 0.30},
	GoalCutting:             {protein: 0.40, carbs: 0.30, fat: 0.30},
	GoalMaintenance:         {protein: 0.30, carbs: 0.40, fat: 0.30},
	GoalAthleticPerformance: {protein: 0.30, carbs: 0.45, fat: 0.25},
}

// BMR computes the basal metabolic rate via the Mifflin-St Jeor equation.
// Anyone not reporting as male gets the female-form constant; this is a
// documented simplification of the equation, not a medical claim.
func BMR(p Profile) float64 {
	base := 10*p.WeightKG + 6.25*p.HeightCM - 5*float64(p.Age)
	if p.Gender == GenderMale {
		return base + 5
	}
	return base - 161
}

// Calculate derives daily targets from a profile. It is a total function:
// unknown activity levels and goals use the documented defaults, and the
// result never reports calories below MinimumCalories.
func Calculate(p Profile) Targets {
	bmr := BMR(p)

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = defaultActivityMultiplier
	}
	tdee := bmr * multiplier

	adjustment := goalAdjustments[p.Goal] // unknown goal adjusts by 0
	targetCalories := math.Max(MinimumCalories, tdee+adjustment)

	split, ok := macroSplits[p.Goal]
	if !ok {
		split = macroSplits[GoalMaintenance]
	}

	return Targets{
		BMR:            round1(bmr),
		TDEE:           round1(tdee),
		TargetCalories: round1(targetCalories),
		ProteinG:       round1(targetCalories * split.protein / caloriesPerGramProtein),
		CarbsG:         round1(targetCalories * split.carbs / caloriesPerGramCarbs),
		FatG:           round1(targetCalories * split.fat / caloriesPerGramFat),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
