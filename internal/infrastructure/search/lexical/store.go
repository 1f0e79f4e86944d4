// Package lexical implements the keyword-overlap candidate store backend.
// It needs no embedding provider and is the default retrieval backend.
package lexical

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/infrastructure/search"
	"github.com/mealforge/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Field weights for term matches. A title hit counts more than an
// ingredient hit, which counts more than a description hit.
const (
	titleWeight       = 3.0
	cuisineWeight     = 2.0
	tagWeight         = 2.0
	ingredientWeight  = 1.5
	descriptionWeight = 1.0
)

// Store scores corpus recipes by weighted term overlap with the query.
type Store struct {
	corpus  outbound.CorpusRepository
	ceiling int
	logger  *zap.Logger
}

// NewStore creates a lexical candidate store over the corpus.
func NewStore(corpus outbound.CorpusRepository, ceiling int, logger *zap.Logger) *Store {
	if ceiling <= 0 {
		ceiling = search.DefaultCandidateCeiling
	}
	return &Store{
		corpus:  corpus,
		ceiling: ceiling,
		logger:  logger.Named("lexical"),
	}
}

var _ outbound.CandidateStore = (*Store)(nil)

// Search scans the corpus, applies the metadata filter, scores the
// survivors by term overlap and returns the top slice with headroom for
// the caller's reranker.
func (s *Store) Search(ctx context.Context, query string, filter outbound.SearchFilter, limit int) ([]recipe.Candidate, error) {
	candidates, err := s.corpus.All(ctx)
	if err != nil {
		return nil, err
	}

	terms := tokenize(query)
	fetchLimit := search.FetchLimit(limit, s.ceiling)

	scored := make([]recipe.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !search.PassesFilter(c, filter) {
			continue
		}
		score := overlapScore(c, terms)
		if len(terms) > 0 && score == 0 {
			continue
		}
		normalized := normalize(score, len(terms))
		c.Score = &normalized
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ScoreOrZero() > scored[j].ScoreOrZero()
	})

	if len(scored) > fetchLimit {
		scored = scored[:fetchLimit]
	}

	s.logger.Debug("lexical search",
		zap.Int("terms", len(terms)),
		zap.Int("results", len(scored)))
	return scored, nil
}

// GetByID performs a point lookup against the corpus.
func (s *Store) GetByID(ctx context.Context, id string) (*recipe.Candidate, error) {
	return s.corpus.FindByID(ctx, id)
}

// tokenize lowercases the query and splits it into unique terms, dropping
// one-character fragments.
func tokenize(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// overlapScore sums field weights over the query terms present in the
// candidate's text fields.
func overlapScore(c recipe.Candidate, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}

	title := strings.ToLower(c.Title)
	description := strings.ToLower(c.Description)
	cuisine := strings.ToLower(c.Cuisine)
	tags := strings.ToLower(strings.Join(c.DietaryTags, " "))
	ingredients := strings.ToLower(strings.Join(c.Ingredients, " "))

	var score float64
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += titleWeight
		}
		if cuisine == term {
			score += cuisineWeight
		}
		if strings.Contains(tags, term) {
			score += tagWeight
		}
		if strings.Contains(ingredients, term) {
			score += ingredientWeight
		}
		if strings.Contains(description, term) {
			score += descriptionWeight
		}
	}
	return score
}

// normalize maps a raw overlap score into [0, 1] against the maximum
// achievable score for the term count.
func normalize(score float64, termCount int) float64 {
	if termCount == 0 {
		return 0
	}
	max := float64(termCount) * (titleWeight + cuisineWeight + tagWeight + ingredientWeight + descriptionWeight)
	normalized := score / max
	if normalized > 1 {
		normalized = 1
	}
	return normalized
}
