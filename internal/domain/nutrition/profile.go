// Package nutrition contains the core domain logic for physiological
// profiles and derived caloric/macro targets.
package nutrition

import "strings"

// Gender is the user's self-reported gender used by the BMR equation.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ActivityLevel describes habitual daily activity, five levels.
type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// Goal is the user's dietary goal.
type Goal string

const (
	GoalWeightLoss          Goal = "weight_loss"
	GoalBulking             Goal = "bulking"
	GoalCutting             Goal = "cutting"
	GoalMaintenance         Goal = "maintenance"
	GoalAthleticPerformance Goal = "athletic_performance"
)

// DisplayName returns the goal as human-readable text ("weight loss").
func (g Goal) DisplayName() string {
	return strings.ReplaceAll(string(g), "_", " ")
}

// Profile is the structured user input describing body metrics, goals and
// dietary constraints. It is owned by the caller and treated as immutable
// by the pipeline; targets are recomputed from it on every request.
type Profile struct {
	HeightCM            float64       `json:"height_cm"`
	WeightKG            float64       `json:"weight_kg"`
	Age                 int           `json:"age"`
	Gender              Gender        `json:"gender"`
	ActivityLevel       ActivityLevel `json:"activity_level"`
	Goal                Goal          `json:"goal"`
	DietaryRestrictions []string      `json:"dietary_restrictions"`
	AllergensToAvoid    []string      `json:"allergens_to_avoid"`
	CuisinePreferences  []string      `json:"cuisine_preferences"`
	Region              string        `json:"region,omitempty"`
}

// Validate checks the hard invariants on body metrics. Enum fields are not
// validated here: unknown activity levels and goals fall back to documented
// defaults inside the calculator instead of failing the request.
func (p Profile) Validate() error {
	if p.HeightCM <= 0 {
		return ErrInvalidHeight
	}
	if p.WeightKG <= 0 {
		return ErrInvalidWeight
	}
	if p.Age <= 0 {
		return ErrInvalidAge
	}
	return nil
}

// Targets holds the daily caloric and macro goals derived from a Profile.
// Derived deterministically, never persisted as the source of truth.
type Targets struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"target_calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
}
