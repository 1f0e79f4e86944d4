// Package vector implements the embedding-similarity candidate store
// backend. Embeddings live in the corpus database and similarity runs
// in process, which is plenty for corpora in the tens of thousands.
package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/infrastructure/search"
	"github.com/mealforge/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Store ranks corpus recipes by cosine similarity between the query
// embedding and each stored recipe embedding.
type Store struct {
	corpus   outbound.CorpusRepository
	embedder outbound.Embedder
	ceiling  int
	logger   *zap.Logger
}

// NewStore creates a vector candidate store over the corpus.
func NewStore(corpus outbound.CorpusRepository, embedder outbound.Embedder, ceiling int, logger *zap.Logger) *Store {
	if ceiling <= 0 {
		ceiling = search.DefaultCandidateCeiling
	}
	return &Store{
		corpus:   corpus,
		embedder: embedder,
		ceiling:  ceiling,
		logger:   logger.Named("vector"),
	}
}

var _ outbound.CandidateStore = (*Store)(nil)

// Search embeds the query, scores every embedded recipe surviving the
// metadata filter and returns the top slice with reranker headroom.
// Recipes without a stored embedding are invisible to this backend.
func (s *Store) Search(ctx context.Context, query string, filter outbound.SearchFilter, limit int) ([]recipe.Candidate, error) {
	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	embeddings, err := s.corpus.AllEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := s.corpus.All(ctx)
	if err != nil {
		return nil, err
	}

	fetchLimit := search.FetchLimit(limit, s.ceiling)

	scored := make([]recipe.Candidate, 0, len(embeddings))
	for _, c := range candidates {
		vector, ok := embeddings[c.ID]
		if !ok {
			continue
		}
		if !search.PassesFilter(c, filter) {
			continue
		}
		score := similarityScore(queryVector, vector)
		c.Score = &score
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ScoreOrZero() > scored[j].ScoreOrZero()
	})

	if len(scored) > fetchLimit {
		scored = scored[:fetchLimit]
	}

	s.logger.Debug("vector search",
		zap.Int("embedded", len(embeddings)),
		zap.Int("results", len(scored)))
	return scored, nil
}

// GetByID performs a point lookup against the corpus.
func (s *Store) GetByID(ctx context.Context, id string) (*recipe.Candidate, error) {
	return s.corpus.FindByID(ctx, id)
}

// IndexCorpus embeds and stores every corpus recipe that does not yet
// have an embedding. Used at startup and after ingestion.
func (s *Store) IndexCorpus(ctx context.Context) (int, error) {
	existing, err := s.corpus.AllEmbeddings(ctx)
	if err != nil {
		return 0, err
	}
	candidates, err := s.corpus.All(ctx)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, c := range candidates {
		if _, ok := existing[c.ID]; ok {
			continue
		}
		vector, err := s.embedder.Embed(ctx, embeddingText(c))
		if err != nil {
			return indexed, fmt.Errorf("failed to embed recipe %s: %w", c.ID, err)
		}
		if err := s.corpus.SaveEmbedding(ctx, c.ID, vector); err != nil {
			return indexed, err
		}
		indexed++
	}

	if indexed > 0 {
		s.logger.Info("indexed corpus embeddings", zap.Int("count", indexed))
	}
	return indexed, nil
}

// embeddingText is the canonical text form a recipe is embedded from.
func embeddingText(c recipe.Candidate) string {
	text := c.Title + ". " + c.Description
	if c.Cuisine != "" {
		text += " Cuisine: " + c.Cuisine + "."
	}
	if len(c.DietaryTags) > 0 {
		text += " Tags:"
		for _, tag := range c.DietaryTags {
			text += " " + tag
		}
		text += "."
	}
	return text
}

// similarityScore maps cosine similarity from [-1, 1] into [0, 1].
func similarityScore(a []float32, b []float32) float64 {
	cos := cosine(a, b)
	score := (cos + 1) / 2
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// cosine computes cosine similarity; mismatched or zero vectors score -1
// so they sink to the bottom.
func cosine(a []float32, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return -1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return -1
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
