// Package outbound defines the interfaces for outbound ports (secondary/driven adapters).
// These are the interfaces the planning pipeline uses to reach external systems.
package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/domain/recipe"
)

// SearchFilter carries the metadata constraints every candidate store must
// honor before (or as part of) relevance scoring.
type SearchFilter struct {
	// DietaryRestrictions is an any-of inclusion filter on dietary tags.
	// Requiring every tag would starve results for users listing several
	// restrictions, so intersection with at least one is enough.
	DietaryRestrictions []string

	// ExcludeAllergens is a hard exclusion: a candidate carrying any of
	// these allergens must never be returned, regardless of score.
	ExcludeAllergens []string
}

// CandidateStore is the polymorphic retrieval capability over the recipe
// corpus. Two interchangeable backends exist (lexical and vector); the
// pipeline is agnostic to which is wired in.
type CandidateStore interface {
	// Search returns candidates matching the query under the filter,
	// ordered by descending relevance. Implementations return up to
	// 2*limit candidates (capped at a fixed ceiling) so the reranker has
	// headroom.
	Search(ctx context.Context, query string, filter SearchFilter, limit int) ([]recipe.Candidate, error)

	// GetByID performs a point lookup. Returns
	// recipe.ErrCandidateNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*recipe.Candidate, error)
}

// GenerateOptions constrain a text generation call.
type GenerateOptions struct {
	// StructuredJSON requests the provider's constrained JSON output mode.
	StructuredJSON bool
	MaxTokens      int
	Temperature    float64
}

// TextGenerator is the untrusted structured-output text generation
// provider. Failures surface as errors, never partial strings.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOptions) (string, error)
}

// Embedder turns text into a vector for the embedding-backed store.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChatTurn is one turn of recorded conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryProvider supplies recent conversation turns for prompt continuity
// and records new ones. Optional collaborator: a nil provider simply means
// plans are generated without conversational context.
type HistoryProvider interface {
	RecentTurns(ctx context.Context, userID uuid.UUID, limit int) ([]ChatTurn, error)
	AppendTurn(ctx context.Context, userID uuid.UUID, turn ChatTurn) error
}

// CorpusRepository is the write/read contract over the recipe corpus used
// for ingestion, seeding and the search backends' raw scans.
type CorpusRepository interface {
	Create(ctx context.Context, candidate recipe.Candidate) error
	BulkCreate(ctx context.Context, candidates []recipe.Candidate) error
	FindByID(ctx context.Context, id string) (*recipe.Candidate, error)
	All(ctx context.Context) ([]recipe.Candidate, error)
	Count(ctx context.Context) (int64, error)

	// Embedding storage for the vector backend.
	SaveEmbedding(ctx context.Context, recipeID string, embedding []float32) error
	AllEmbeddings(ctx context.Context) (map[string][]float32, error)
}

// PlanRepository persists the latest generated plan per user. Last write
// wins; concurrent requests for the same user are not serialized here.
type PlanRepository interface {
	SaveLatest(ctx context.Context, userID uuid.UUID, p plan.Plan) error
	GetLatest(ctx context.Context, userID uuid.UUID) (*plan.Plan, error)
}

// ProfileRepository persists user profiles. The profile remains the source
// of truth for targets; targets themselves are never stored.
type ProfileRepository interface {
	Save(ctx context.Context, userID uuid.UUID, profile nutrition.Profile) error
	Get(ctx context.Context, userID uuid.UUID) (*nutrition.Profile, error)
}
