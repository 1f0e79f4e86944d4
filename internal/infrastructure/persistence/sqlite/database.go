// Package sqlite provides SQLite database setup and corpus seeding
package sqlite

import (
	"fmt"

	gormModels "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run auto-migration
	err = db.AutoMigrate(
		&gormModels.CandidateModel{},
		&gormModels.EmbeddingModel{},
		&gormModels.PlanModel{},
		&gormModels.ProfileModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates the corpus with a starter recipe set so a fresh
// install can serve searches before any ingestion has run.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	db.Model(&gormModels.CandidateModel{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	for _, model := range starterCorpus() {
		if err := db.Create(&model).Error; err != nil {
			return fmt.Errorf("failed to seed recipe %s: %w", model.ID, err)
		}
	}
	return nil
}

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

// starterCorpus returns a small cross-cuisine recipe set covering the
// common dietary tags and allergens so filtered search has something to
// bite on from the first request.
func starterCorpus() []gormModels.CandidateModel {
	return []gormModels.CandidateModel{
		{
			ID:          "seed-palak-paneer",
			Title:       "Palak Paneer",
			Description: "Creamy spinach curry with pan-fried paneer cubes",
			Cuisine:     "Indian",
			Calories:    f(420), ProteinG: f(21), CarbsG: f(18), FatG: f(30),
			Ingredients:  gormModels.StringSlice{"spinach", "paneer", "onion", "garlic", "cream", "garam masala"},
			Instructions: gormModels.StringSlice{"Blanch and blend the spinach", "Fry the paneer until golden", "Simmer together with spices"},
			TimeMinutes:  i(40),
			MealTypes:    gormModels.StringSlice{"Lunch", "Dinner"},
			DietaryTags:  gormModels.StringSlice{"vegetarian", "gluten-free"},
			Allergens:    gormModels.StringSlice{"dairy"},
		},
		{
			ID:          "seed-chicken-tikka",
			Title:       "Chicken Tikka Skewers",
			Description: "Yogurt-marinated chicken grilled with charred peppers",
			Cuisine:     "Indian",
			Calories:    f(380), ProteinG: f(42), CarbsG: f(12), FatG: f(18),
			Ingredients:  gormModels.StringSlice{"chicken breast", "yogurt", "lemon", "bell pepper", "tikka spices"},
			Instructions: gormModels.StringSlice{"Marinate the chicken overnight", "Thread onto skewers", "Grill until charred"},
			TimeMinutes:  i(35),
			MealTypes:    gormModels.StringSlice{"Lunch", "Dinner"},
			DietaryTags:  gormModels.StringSlice{"high-protein", "gluten-free"},
			Allergens:    gormModels.StringSlice{"dairy"},
		},
		{
			ID:          "seed-keto-salmon",
			Title:       "Keto Baked Salmon with Asparagus",
			Description: "Butter-baked salmon fillet over roasted asparagus",
			Cuisine:     "American",
			Calories:    f(520), ProteinG: f(40), CarbsG: f(6), FatG: f(38),
			Ingredients:  gormModels.StringSlice{"salmon fillet", "asparagus", "butter", "lemon", "dill"},
			Instructions: gormModels.StringSlice{"Season the salmon", "Roast with asparagus at 200C", "Finish with lemon butter"},
			TimeMinutes:  i(25),
			MealTypes:    gormModels.StringSlice{"Dinner"},
			DietaryTags:  gormModels.StringSlice{"keto", "low-carb", "high-protein", "gluten-free"},
			Allergens:    gormModels.StringSlice{"fish", "dairy"},
		},
		{
			ID:          "seed-vegan-buddha-bowl",
			Title:       "Vegan Buddha Bowl",
			Description: "Quinoa bowl with roasted chickpeas, avocado and tahini",
			Cuisine:     "Mediterranean",
			Calories:    f(480), ProteinG: f(17), CarbsG: f(62), FatG: f(20),
			Ingredients:  gormModels.StringSlice{"quinoa", "chickpeas", "avocado", "kale", "tahini", "lemon"},
			Instructions: gormModels.StringSlice{"Cook the quinoa", "Roast the chickpeas", "Assemble and dress with tahini"},
			TimeMinutes:  i(30),
			MealTypes:    gormModels.StringSlice{"Lunch"},
			DietaryTags:  gormModels.StringSlice{"vegan", "vegetarian", "gluten-free"},
			Allergens:    gormModels.StringSlice{"sesame"},
		},
		{
			ID:          "seed-pad-thai",
			Title:       "Shrimp Pad Thai",
			Description: "Rice noodles tossed with shrimp, egg, tamarind and peanuts",
			Cuisine:     "Thai",
			Calories:    f(560), ProteinG: f(28), CarbsG: f(68), FatG: f(19),
			Ingredients:  gormModels.StringSlice{"rice noodles", "shrimp", "egg", "tamarind paste", "peanuts", "bean sprouts"},
			Instructions: gormModels.StringSlice{"Soak the noodles", "Stir fry shrimp and egg", "Toss with sauce and peanuts"},
			TimeMinutes:  i(30),
			MealTypes:    gormModels.StringSlice{"Dinner"},
			DietaryTags:  gormModels.StringSlice{},
			Allergens:    gormModels.StringSlice{"shellfish", "peanuts", "eggs"},
		},
		{
			ID:          "seed-overnight-oats",
			Title:       "Berry Overnight Oats",
			Description: "Rolled oats soaked in oat milk with mixed berries and chia",
			Cuisine:     "American",
			Calories:    f(350), ProteinG: f(12), CarbsG: f(55), FatG: f(9),
			Ingredients:  gormModels.StringSlice{"rolled oats", "oat milk", "chia seeds", "mixed berries", "maple syrup"},
			Instructions: gormModels.StringSlice{"Combine everything in a jar", "Refrigerate overnight"},
			TimeMinutes:  i(10),
			MealTypes:    gormModels.StringSlice{"Breakfast"},
			DietaryTags:  gormModels.StringSlice{"vegan", "vegetarian"},
			Allergens:    gormModels.StringSlice{"gluten"},
		},
		{
			ID:          "seed-greek-salad",
			Title:       "Greek Salad with Grilled Chicken",
			Description: "Crisp salad with feta, olives and grilled chicken breast",
			Cuisine:     "Mediterranean",
			Calories:    f(430), ProteinG: f(38), CarbsG: f(14), FatG: f(26),
			Ingredients:  gormModels.StringSlice{"chicken breast", "cucumber", "tomato", "feta", "olives", "olive oil"},
			Instructions: gormModels.StringSlice{"Grill the chicken", "Chop the vegetables", "Toss with oil and feta"},
			TimeMinutes:  i(25),
			MealTypes:    gormModels.StringSlice{"Lunch", "Dinner"},
			DietaryTags:  gormModels.StringSlice{"high-protein", "low-carb", "gluten-free"},
			Allergens:    gormModels.StringSlice{"dairy"},
		},
		{
			ID:          "seed-tofu-stir-fry",
			Title:       "Sesame Tofu Stir Fry",
			Description: "Crispy tofu and vegetables in a ginger soy glaze",
			Cuisine:     "Japanese",
			Calories:    f(400), ProteinG: f(22), CarbsG: f(38), FatG: f(18),
			Ingredients:  gormModels.StringSlice{"firm tofu", "broccoli", "carrot", "soy sauce", "ginger", "sesame oil"},
			Instructions: gormModels.StringSlice{"Press and cube the tofu", "Fry until crispy", "Stir fry with vegetables and glaze"},
			TimeMinutes:  i(30),
			MealTypes:    gormModels.StringSlice{"Lunch", "Dinner"},
			DietaryTags:  gormModels.StringSlice{"vegan", "vegetarian", "high-protein"},
			Allergens:    gormModels.StringSlice{"soy", "sesame"},
		},
		{
			ID:          "seed-beef-tacos",
			Title:       "Street-Style Beef Tacos",
			Description: "Corn tortillas with spiced ground beef, onion and cilantro",
			Cuisine:     "Mexican",
			Calories:    f(510), ProteinG: f(31), CarbsG: f(42), FatG: f(24),
			Ingredients:  gormModels.StringSlice{"ground beef", "corn tortillas", "onion", "cilantro", "lime", "chili powder"},
			Instructions: gormModels.StringSlice{"Brown the beef with spices", "Warm the tortillas", "Assemble with onion and cilantro"},
			TimeMinutes:  i(25),
			MealTypes:    gormModels.StringSlice{"Dinner"},
			DietaryTags:  gormModels.StringSlice{"high-protein"},
			Allergens:    gormModels.StringSlice{},
		},
		{
			ID:          "seed-protein-smoothie",
			Title:       "Peanut Butter Protein Smoothie",
			Description: "Banana, peanut butter and whey blended with milk",
			Cuisine:     "American",
			Calories:    f(390), ProteinG: f(32), CarbsG: f(36), FatG: f(14),
			Ingredients:  gormModels.StringSlice{"banana", "peanut butter", "whey protein", "milk", "ice"},
			Instructions: gormModels.StringSlice{"Blend everything until smooth"},
			TimeMinutes:  i(5),
			MealTypes:    gormModels.StringSlice{"Breakfast", "Snack"},
			DietaryTags:  gormModels.StringSlice{"vegetarian", "high-protein"},
			Allergens:    gormModels.StringSlice{"peanuts", "dairy"},
		},
	}
}
