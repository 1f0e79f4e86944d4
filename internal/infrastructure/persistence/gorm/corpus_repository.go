package gorm

import (
	"context"
	"errors"

	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CorpusRepository implements the corpus repository interface using GORM
type CorpusRepository struct {
	db *gorm.DB
}

// NewCorpusRepository creates a new corpus repository
func NewCorpusRepository(db *gorm.DB) outbound.CorpusRepository {
	return &CorpusRepository{db: db}
}

// Create inserts one recipe into the corpus
func (r *CorpusRepository) Create(ctx context.Context, candidate recipe.Candidate) error {
	model := CandidateToModel(candidate)

	result := r.db.WithContext(ctx).Create(model)
	return result.Error
}

// BulkCreate inserts many recipes, upserting on id so seeding is idempotent
func (r *CorpusRepository) BulkCreate(ctx context.Context, candidates []recipe.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}

	models := make([]*CandidateModel, len(candidates))
	for i, c := range candidates {
		models[i] = CandidateToModel(c)
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(models, 100)
	return result.Error
}

// FindByID finds a recipe by ID
func (r *CorpusRepository) FindByID(ctx context.Context, id string) (*recipe.Candidate, error) {
	var model CandidateModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, recipe.ErrCandidateNotFound
		}
		return nil, result.Error
	}

	candidate := ModelToCandidate(&model)
	return &candidate, nil
}

// All returns the whole corpus, ordered by title for deterministic scans
func (r *CorpusRepository) All(ctx context.Context) ([]recipe.Candidate, error) {
	var models []CandidateModel

	result := r.db.WithContext(ctx).Order("title ASC").Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	candidates := make([]recipe.Candidate, len(models))
	for i := range models {
		candidates[i] = ModelToCandidate(&models[i])
	}
	return candidates, nil
}

// Count returns the corpus size
func (r *CorpusRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&CandidateModel{}).Count(&count)
	return count, result.Error
}

// SaveEmbedding stores or replaces the embedding for a recipe
func (r *CorpusRepository) SaveEmbedding(ctx context.Context, recipeID string, embedding []float32) error {
	model := &EmbeddingModel{
		RecipeID:  recipeID,
		Vector:    encodeVector(embedding),
		Dimension: len(embedding),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}},
			UpdateAll: true,
		}).
		Create(model)
	return result.Error
}

// AllEmbeddings loads every stored embedding keyed by recipe id
func (r *CorpusRepository) AllEmbeddings(ctx context.Context) (map[string][]float32, error) {
	var models []EmbeddingModel

	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	embeddings := make(map[string][]float32, len(models))
	for i := range models {
		embeddings[models[i].RecipeID] = decodeVector(models[i].Vector)
	}
	return embeddings, nil
}
