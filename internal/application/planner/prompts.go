package planner

import (
	"fmt"
	"strings"

	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/ports/outbound"
)

// buildSystemPrompt instructs the generator to act as a nutritionist and to
// emit exactly one JSON object in the plan shape.
func buildSystemPrompt(profile nutrition.Profile, targets nutrition.Targets, days int) string {
	restrictions := "None"
	if len(profile.DietaryRestrictions) > 0 {
		restrictions = strings.Join(profile.DietaryRestrictions, ", ")
	}
	cuisines := "Any"
	if len(profile.CuisinePreferences) > 0 {
		cuisines = strings.Join(profile.CuisinePreferences, ", ")
	}

	systemPrompt := fmt.Sprintf(`You are a world-class professional nutritionist and culinary expert. Create a highly personalized %d-day meal plan.

USER PROFILE:
- Goal: %s
- Dietary restrictions: %s
- Cuisine preferences: %s

DAILY NUTRITION TARGETS:
- Calories: %.0f kcal
- Protein: %.0f g
- Carbs: %.0f g
- Fat: %.0f g

CRITICAL: Respond with ONLY a valid JSON object in this exact format:
{
  "overview": "Brief summary of the plan and why it fits the user",
  "days": [
    {
      "day_number": 1,
      "total_calories": 2100,
      "meals": [
        {
          "meal_type": "Breakfast",
          "recipe_id": "id_here",
          "recipe_title": "Title here",
          "calories": 450,
          "protein_g": 30.5,
          "carbs_g": 40.0,
          "fat_g": 15.2
        }
      ]
    }
  ]
}

Requirements:
- Produce exactly %d days, day_number starting at 1 and increasing by 1.
- Each day has Breakfast, Lunch and Dinner at minimum.
- Use ONLY the recipes listed in the user message; carry their ids into recipe_id.
- Every meal must have positive calories, protein_g, carbs_g and fat_g.
- total_calories must equal the sum of that day's meal calories.

Remember: Respond with ONLY valid JSON. No additional text, explanations, or formatting.`,
		days,
		profile.Goal.DisplayName(),
		restrictions,
		cuisines,
		targets.TargetCalories,
		targets.ProteinG,
		targets.CarbsG,
		targets.FatG,
		days,
	)

	return systemPrompt
}

// buildUserPrompt assembles the request, the condensed candidate listing and
// recent conversation turns into one generation prompt.
func buildUserPrompt(query string, candidates []recipe.Candidate, history []outbound.ChatTurn) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User request: %s\n\n", query)

	if len(candidates) > 0 {
		b.WriteString("Available recipes (use these ids where possible):\n")
		for _, c := range candidates {
			b.WriteString(condenseCandidate(c))
			b.WriteByte('\n')
		}
	} else {
		b.WriteString("No recipes were retrieved; compose sensible meals matching the profile instead.\n")
	}

	if len(history) > 0 {
		b.WriteString("\nRecent conversation:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	return b.String()
}

// condenseCandidate renders one candidate as a single prompt line:
// id, title, calories and macros. Missing corpus values render as "n/a".
func condenseCandidate(c recipe.Candidate) string {
	return fmt.Sprintf("- %s | %s | %s kcal | P %sg C %sg F %sg",
		c.ID, c.Title,
		optFloat(c.Calories), optFloat(c.ProteinG), optFloat(c.CarbsG), optFloat(c.FatG))
}

func optFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", *v)
}
