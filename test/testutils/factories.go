package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/recipe"
)

var factoryCuisines = []string{"Indian", "Italian", "Thai", "Mexican", "French", "Japanese"}
var factoryTags = []string{"keto", "vegetarian", "vegan", "gluten-free", "high-protein", "low-carb"}
var factoryAllergens = []string{"peanuts", "dairy", "gluten", "shellfish", "eggs", "soy"}
var factoryMealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

// CandidateFactory produces seeded, reproducible recipe candidates.
type CandidateFactory struct {
	faker *gofakeit.Faker
	seq   int
}

// NewCandidateFactory creates a factory with a seeded faker
func NewCandidateFactory(seed int64) *CandidateFactory {
	return &CandidateFactory{faker: gofakeit.New(seed)}
}

// Candidate builds one random candidate with full nutrition data.
func (f *CandidateFactory) Candidate() recipe.Candidate {
	f.seq++
	calories := f.faker.Float64Range(150, 900)
	protein := f.faker.Float64Range(5, 60)
	carbs := f.faker.Float64Range(10, 90)
	fat := f.faker.Float64Range(3, 40)
	timeMinutes := f.faker.Number(10, 90)
	score := f.faker.Float64Range(0, 1)

	return recipe.Candidate{
		ID:          fmt.Sprintf("recipe-%04d", f.seq),
		Title:       f.faker.Dinner(),
		Description: f.faker.Sentence(8),
		Cuisine:     f.pick(factoryCuisines),
		Calories:    &calories,
		ProteinG:    &protein,
		CarbsG:      &carbs,
		FatG:        &fat,
		Ingredients: []string{f.faker.Vegetable(), f.faker.Fruit(), f.faker.Lunch()},
		Instructions: []string{
			"Prep the ingredients",
			"Cook and season to taste",
		},
		TimeMinutes: &timeMinutes,
		MealTypes:   []string{f.pick(factoryMealTypes)},
		DietaryTags: f.someOf(factoryTags, 2),
		Allergens:   f.someOf(factoryAllergens, 1),
		Score:       &score,
	}
}

// Candidates builds n random candidates.
func (f *CandidateFactory) Candidates(n int) []recipe.Candidate {
	out := make([]recipe.Candidate, n)
	for i := range out {
		out[i] = f.Candidate()
	}
	return out
}

// WithTags builds a candidate carrying exactly the given dietary tags.
func (f *CandidateFactory) WithTags(tags ...string) recipe.Candidate {
	c := f.Candidate()
	c.DietaryTags = tags
	return c
}

// WithAllergens builds a candidate carrying exactly the given allergens.
func (f *CandidateFactory) WithAllergens(allergens ...string) recipe.Candidate {
	c := f.Candidate()
	c.Allergens = allergens
	return c
}

func (f *CandidateFactory) pick(options []string) string {
	return options[f.faker.Number(0, len(options)-1)]
}

func (f *CandidateFactory) someOf(options []string, max int) []string {
	n := f.faker.Number(0, max)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := f.pick(options)
		out = append(out, v)
	}
	return out
}

// ValidProfile returns a well-formed reference profile for tests.
func ValidProfile() nutrition.Profile {
	return nutrition.Profile{
		HeightCM:            180,
		WeightKG:            75,
		Age:                 30,
		Gender:              nutrition.GenderMale,
		ActivityLevel:       nutrition.ActivityModeratelyActive,
		Goal:                nutrition.GoalMaintenance,
		DietaryRestrictions: []string{"vegetarian"},
		CuisinePreferences:  []string{"Indian"},
	}
}
