package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/infrastructure/config"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	apperrors "github.com/mealforge/v2/pkg/errors"
	"go.uber.org/zap"
)

// Service implements the meal-plan pipeline. It is request-scoped and
// stateless between invocations: all mutable state lives on the call stack
// of a single request, so concurrent requests never interfere.
type Service struct {
	store     outbound.CandidateStore
	generator outbound.TextGenerator
	history   outbound.HistoryProvider // optional, may be nil
	plans     outbound.PlanRepository  // optional, may be nil
	cfg       config.PlannerConfig
	logger    *zap.Logger
}

// NewService creates the planner service with injected collaborators.
// History and plan persistence are optional; pass nil to run without them.
func NewService(
	store outbound.CandidateStore,
	generator outbound.TextGenerator,
	history outbound.HistoryProvider,
	plans outbound.PlanRepository,
	cfg config.PlannerConfig,
	logger *zap.Logger,
) *Service {
	// Zero is a valid boost; negative means unset. Loaded configs carry
	// the viper default, so this only fires for directly built configs.
	if cfg.CuisineBoost < 0 {
		cfg.CuisineBoost = DefaultCuisineBoost
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = 15
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 5
	}
	if cfg.DefaultDays <= 0 {
		cfg.DefaultDays = 7
	}
	if cfg.MaxDays <= 0 {
		cfg.MaxDays = 30
	}
	return &Service{
		store:     store,
		generator: generator,
		history:   history,
		plans:     plans,
		cfg:       cfg,
		logger:    logger.Named("planner"),
	}
}

var _ inbound.PlannerService = (*Service)(nil)

// ComputeTargets derives daily targets from a validated profile.
func (s *Service) ComputeTargets(_ context.Context, profile nutrition.Profile) (nutrition.Targets, error) {
	if err := profile.Validate(); err != nil {
		return nutrition.Targets{}, apperrors.NewValidationError(err.Error())
	}
	return nutrition.Calculate(profile), nil
}

// SearchRecipes runs the retrieval half of the pipeline: augmented query,
// filtered store search, cuisine-preference rerank, truncation to TopK.
func (s *Service) SearchRecipes(ctx context.Context, query inbound.SearchRecipesQuery) ([]recipe.Candidate, error) {
	if err := query.Profile.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	topK := query.TopK
	if topK <= 0 {
		topK = s.cfg.CandidateLimit
	}

	targets := nutrition.Calculate(query.Profile)
	augmented := AugmentQuery(query.Query, query.Profile, targets)

	candidates, err := s.store.Search(ctx, augmented, searchFilter(query.Profile), topK)
	if err != nil {
		return nil, apperrors.NewRetrievalFailedError(err)
	}

	return Rerank(candidates, query.Profile.CuisinePreferences, s.cfg.CuisineBoost, topK), nil
}

// GenerateMealPlan runs the full pipeline:
//
//	Idle -> Retrieving -> (RetrievedEmpty -> BroadenedRetrieving -> Retrieved)
//	     -> Generating -> Parsing -> (ParseFailed | Validating -> Done)
//
// No stage is retried more than once: at most one retrieval broaden and one
// generation call per request. Provider timeouts and errors fail closed;
// there is no silent empty-plan fallback.
func (s *Service) GenerateMealPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*inbound.PlanResult, error) {
	if err := cmd.Profile.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	days := cmd.Days
	if days <= 0 {
		days = s.cfg.DefaultDays
	}
	if days > s.cfg.MaxDays {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("days must not exceed %d", s.cfg.MaxDays))
	}

	targets := nutrition.Calculate(cmd.Profile)
	augmented := AugmentQuery(cmd.Query, cmd.Profile, targets)

	var warnings []plan.Warning

	candidates, err := s.retrieveWithBroadening(ctx, augmented, cmd.Profile)
	if err != nil {
		return nil, apperrors.NewRetrievalFailedError(err)
	}
	if len(candidates) == 0 {
		s.logger.Warn("no candidates even after broadening; plan will be less personalized")
		warnings = append(warnings, plan.Warning{
			Code:    plan.WarnRetrievalEmpty,
			Message: "no matching recipes found; the plan is not grounded in the corpus",
		})
	}

	ranked := Rerank(candidates, cmd.Profile.CuisinePreferences, s.cfg.CuisineBoost, s.cfg.CandidateLimit)

	history := s.recentHistory(ctx, cmd.UserID)

	systemPrompt := buildSystemPrompt(cmd.Profile, targets, days)
	userPrompt := buildUserPrompt(cmd.Query, ranked, history)

	s.logger.Info("invoking text generator",
		zap.Int("candidates", len(ranked)),
		zap.Int("days", days),
		zap.Int("history_turns", len(history)))

	raw, err := s.generator.Generate(ctx, systemPrompt, userPrompt, outbound.GenerateOptions{
		StructuredJSON: true,
	})
	if err != nil {
		return nil, apperrors.NewGenerationProviderError(err)
	}

	parsed, err := parsePlan(raw)
	if err != nil {
		s.logger.Error("generator output failed to parse", zap.Error(err))
		return nil, apperrors.NewGenerationParseError(err, raw)
	}
	if err := parsed.ValidateShape(); err != nil {
		s.logger.Error("generator output failed shape validation", zap.Error(err))
		return nil, apperrors.NewGenerationParseError(err, raw)
	}

	parsed.EnsureTargets(targets)
	warnings = append(warnings, parsed.Audit(days)...)
	warnings = append(warnings, s.resolveRecipeIDs(ctx, parsed, ranked)...)

	for _, w := range warnings {
		s.logger.Warn("plan quality warning", zap.String("code", w.Code), zap.String("message", w.Message))
	}

	s.persistPlan(ctx, cmd, *parsed)

	return &inbound.PlanResult{Plan: *parsed, Warnings: warnings}, nil
}

// LatestMealPlan returns the most recently persisted plan for a user.
func (s *Service) LatestMealPlan(ctx context.Context, userID uuid.UUID) (*plan.Plan, error) {
	if s.plans == nil {
		return nil, apperrors.NewNotFoundError("meal plan")
	}
	p, err := s.plans.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperrors.NewNotFoundError("meal plan")
	}
	return p, nil
}

// searchFilter builds the shared metadata filter: restrictions as any-of
// inclusion, allergens as hard exclusion.
func searchFilter(profile nutrition.Profile) outbound.SearchFilter {
	return outbound.SearchFilter{
		DietaryRestrictions: profile.DietaryRestrictions,
		ExcludeAllergens:    profile.AllergensToAvoid,
	}
}

// retrieveWithBroadening performs the filtered search and, on an empty
// result, exactly one broadened retry: goal term only, without restriction
// narrowing. Allergen exclusion is never relaxed.
func (s *Service) retrieveWithBroadening(ctx context.Context, augmented string, profile nutrition.Profile) ([]recipe.Candidate, error) {
	candidates, err := s.store.Search(ctx, augmented, searchFilter(profile), s.cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	s.logger.Info("retrieval empty, broadening query", zap.String("goal", string(profile.Goal)))
	broadened := outbound.SearchFilter{ExcludeAllergens: profile.AllergensToAvoid}
	return s.store.Search(ctx, profile.Goal.DisplayName(), broadened, s.cfg.CandidateLimit)
}

// recentHistory fetches the last few conversation turns for continuity.
// History failures never fail the request.
func (s *Service) recentHistory(ctx context.Context, userID uuid.UUID) []outbound.ChatTurn {
	if s.history == nil || userID == uuid.Nil {
		return nil
	}
	turns, err := s.history.RecentTurns(ctx, userID, s.cfg.HistoryTurns)
	if err != nil {
		s.logger.Warn("failed to load conversation history", zap.Error(err))
		return nil
	}
	return turns
}

// resolveRecipeIDs checks, best effort, that every emitted meal references
// a retrievable candidate id. Ids from the supplied candidate set are
// trusted; anything else gets a point lookup, and unknown ids are reported
// as warnings while the generated title is kept.
func (s *Service) resolveRecipeIDs(ctx context.Context, p *plan.Plan, candidates []recipe.Candidate) []plan.Warning {
	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c.ID] = struct{}{}
	}

	var warnings []plan.Warning
	for _, day := range p.Days {
		for _, meal := range day.Meals {
			if meal.RecipeID == "" {
				continue
			}
			if _, ok := known[meal.RecipeID]; ok {
				continue
			}
			if _, err := s.store.GetByID(ctx, meal.RecipeID); err != nil {
				if !errors.Is(err, recipe.ErrCandidateNotFound) {
					s.logger.Warn("recipe lookup failed during id resolution", zap.Error(err))
					continue
				}
				warnings = append(warnings, plan.Warning{
					Code: plan.WarnUnknownRecipeID,
					Message: fmt.Sprintf("day %d %s references unknown recipe %q",
						day.DayNumber, meal.MealType, meal.RecipeID),
				})
			}
		}
	}
	return warnings
}

// persistPlan stores the latest plan and records the exchange in history.
// Persistence is a collaborator concern; failures are logged, not fatal.
func (s *Service) persistPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand, p plan.Plan) {
	if cmd.UserID == uuid.Nil {
		return
	}
	if s.plans != nil {
		if err := s.plans.SaveLatest(ctx, cmd.UserID, p); err != nil {
			s.logger.Warn("failed to persist plan", zap.Error(err))
		}
	}
	if s.history != nil && cmd.Query != "" {
		if err := s.history.AppendTurn(ctx, cmd.UserID, outbound.ChatTurn{Role: "user", Content: cmd.Query}); err != nil {
			s.logger.Warn("failed to record history turn", zap.Error(err))
		} else if err := s.history.AppendTurn(ctx, cmd.UserID, outbound.ChatTurn{Role: "assistant", Content: p.Overview}); err != nil {
			s.logger.Warn("failed to record history turn", zap.Error(err))
		}
	}
}
