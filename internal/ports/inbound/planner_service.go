// Package inbound defines the interfaces for inbound ports (primary/driving adapters).
// These are the use cases the application exposes to HTTP handlers and other callers.
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/domain/recipe"
)

// PlannerService defines the use cases of the meal-plan pipeline.
type PlannerService interface {
	// ComputeTargets derives daily caloric/macro targets from a profile.
	ComputeTargets(ctx context.Context, profile nutrition.Profile) (nutrition.Targets, error)

	// SearchRecipes runs the retrieval and rerank half of the pipeline:
	// augmented query, filtered store search, cuisine-preference rerank.
	SearchRecipes(ctx context.Context, query SearchRecipesQuery) ([]recipe.Candidate, error)

	// GenerateMealPlan runs the full pipeline and returns the assembled
	// plan together with any non-fatal quality warnings.
	GenerateMealPlan(ctx context.Context, cmd GenerateMealPlanCommand) (*PlanResult, error)

	// LatestMealPlan returns the most recently persisted plan for a user.
	LatestMealPlan(ctx context.Context, userID uuid.UUID) (*plan.Plan, error)
}

// SearchRecipesQuery carries a personalized recipe search request.
type SearchRecipesQuery struct {
	Query   string
	Profile nutrition.Profile
	TopK    int
}

// GenerateMealPlanCommand carries a full plan generation request.
type GenerateMealPlanCommand struct {
	Query   string
	Profile nutrition.Profile
	Days    int

	// UserID enables history continuity and plan persistence; uuid.Nil
	// generates an anonymous, unpersisted plan.
	UserID uuid.UUID
}

// PlanResult is an assembled plan plus the soft quality findings collected
// while validating generator output.
type PlanResult struct {
	Plan     plan.Plan      `json:"plan"`
	Warnings []plan.Warning `json:"warnings,omitempty"`
}
