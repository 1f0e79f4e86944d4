package vector_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mealforge/v2/internal/domain/recipe"
	gormrepo "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v2/internal/infrastructure/persistence/sqlite"
	"github.com/mealforge/v2/internal/infrastructure/search/vector"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/mealforge/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

type VectorStoreTestSuite struct {
	suite.Suite
	corpus   outbound.CorpusRepository
	embedder *testutils.MockEmbedder
	store    *vector.Store
	ctx      context.Context
}

func (s *VectorStoreTestSuite) SetupTest() {
	db, err := sqlite.SetupDatabase("", gormlogger.Silent)
	require.NoError(s.T(), err)

	s.corpus = gormrepo.NewCorpusRepository(db)
	s.embedder = testutils.NewMockEmbedder()
	s.store = vector.NewStore(s.corpus, s.embedder, 30, zap.NewNop())
	s.ctx = context.Background()

	factory := testutils.NewCandidateFactory(11)
	seed := []recipe.Candidate{
		factory.WithTags("keto"),
		factory.WithTags("vegetarian"),
		factory.WithAllergens("peanuts"),
	}
	seed[0].ID = "r-keto"
	seed[0].Allergens = nil
	seed[1].ID = "r-veg"
	seed[1].Allergens = nil
	seed[2].ID = "r-peanut"
	require.NoError(s.T(), s.corpus.BulkCreate(s.ctx, seed))

	// Hand-placed embeddings: r-keto points along x, r-veg along y,
	// r-peanut between them.
	require.NoError(s.T(), s.corpus.SaveEmbedding(s.ctx, "r-keto", []float32{1, 0, 0}))
	require.NoError(s.T(), s.corpus.SaveEmbedding(s.ctx, "r-veg", []float32{0, 1, 0}))
	require.NoError(s.T(), s.corpus.SaveEmbedding(s.ctx, "r-peanut", []float32{0.7, 0.7, 0}))
}

func TestVectorStoreTestSuite(t *testing.T) {
	suite.Run(t, new(VectorStoreTestSuite))
}

func (s *VectorStoreTestSuite) TestSearchRanksByCosineSimilarity() {
	s.embedder.On("Embed", mock.Anything, "low carb fish").
		Return([]float32{1, 0, 0}, nil).Once()

	results, err := s.store.Search(s.ctx, "low carb fish", outbound.SearchFilter{}, 5)

	require.NoError(s.T(), err)
	require.Len(s.T(), results, 3)
	assert.Equal(s.T(), "r-keto", results[0].ID)
	require.NotNil(s.T(), results[0].Score)
	assert.InDelta(s.T(), 1.0, *results[0].Score, 1e-9)
	for _, c := range results {
		assert.GreaterOrEqual(s.T(), c.ScoreOrZero(), 0.0)
		assert.LessOrEqual(s.T(), c.ScoreOrZero(), 1.0)
	}
}

func (s *VectorStoreTestSuite) TestSearchHonorsAllergenExclusion() {
	s.embedder.On("Embed", mock.Anything, mock.Anything).
		Return([]float32{0.7, 0.7, 0}, nil).Once()

	results, err := s.store.Search(s.ctx, "anything", outbound.SearchFilter{
		ExcludeAllergens: []string{"peanuts"},
	}, 5)

	require.NoError(s.T(), err)
	for _, c := range results {
		assert.NotEqual(s.T(), "r-peanut", c.ID)
	}
}

func (s *VectorStoreTestSuite) TestAllergenExclusionHoldsOverFuzzedCorpus() {
	factory := testutils.NewCandidateFactory(42)
	bulk := factory.Candidates(120)
	require.NoError(s.T(), s.corpus.BulkCreate(s.ctx, bulk))

	vecFaker := gofakeit.New(43)
	for _, c := range bulk {
		vec := []float32{
			float32(vecFaker.Float64Range(-1, 1)),
			float32(vecFaker.Float64Range(-1, 1)),
			float32(vecFaker.Float64Range(-1, 1)),
		}
		require.NoError(s.T(), s.corpus.SaveEmbedding(s.ctx, c.ID, vec))
	}

	s.embedder.On("Embed", mock.Anything, mock.Anything).
		Return([]float32{0.3, -0.2, 0.9}, nil)

	// Wide ceiling so the assertion sees the whole filtered corpus, not
	// just the top slice.
	wide := vector.NewStore(s.corpus, s.embedder, 500, zap.NewNop())

	for _, allergen := range []string{"peanuts", "dairy", "gluten", "shellfish", "eggs", "soy"} {
		carriers := 0
		for _, c := range bulk {
			if c.ContainsAllergen([]string{allergen}) {
				carriers++
			}
		}
		require.Positive(s.T(), carriers, "fuzzed corpus must contain %s carriers", allergen)

		results, err := wide.Search(s.ctx, "safe weeknight dinner", outbound.SearchFilter{
			ExcludeAllergens: []string{allergen},
		}, 200)

		require.NoError(s.T(), err)
		require.NotEmpty(s.T(), results)
		for _, c := range results {
			assert.False(s.T(), c.ContainsAllergen([]string{allergen}),
				"candidate %s carries excluded allergen %s", c.ID, allergen)
		}
	}
}

func (s *VectorStoreTestSuite) TestSearchHonorsDietaryRestriction() {
	s.embedder.On("Embed", mock.Anything, mock.Anything).
		Return([]float32{1, 0, 0}, nil).Once()

	results, err := s.store.Search(s.ctx, "anything", outbound.SearchFilter{
		DietaryRestrictions: []string{"vegetarian"},
	}, 5)

	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), results)
	for _, c := range results {
		assert.True(s.T(), c.HasAnyDietaryTag([]string{"vegetarian"}))
	}
}

func (s *VectorStoreTestSuite) TestSearchSkipsUnembeddedRecipes() {
	factory := testutils.NewCandidateFactory(13)
	extra := factory.Candidate()
	extra.ID = "r-unembedded"
	extra.Allergens = nil
	require.NoError(s.T(), s.corpus.Create(s.ctx, extra))

	s.embedder.On("Embed", mock.Anything, mock.Anything).
		Return([]float32{1, 0, 0}, nil).Once()

	results, err := s.store.Search(s.ctx, "anything", outbound.SearchFilter{}, 10)

	require.NoError(s.T(), err)
	for _, c := range results {
		assert.NotEqual(s.T(), "r-unembedded", c.ID)
	}
}

func (s *VectorStoreTestSuite) TestIndexCorpusEmbedsOnlyMissing() {
	factory := testutils.NewCandidateFactory(17)
	extra := factory.Candidate()
	extra.ID = "r-new"
	require.NoError(s.T(), s.corpus.Create(s.ctx, extra))

	s.embedder.On("Embed", mock.Anything, mock.Anything).
		Return([]float32{0.1, 0.2, 0.3}, nil).Once()

	indexed, err := s.store.IndexCorpus(s.ctx)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, indexed)
	s.embedder.AssertNumberOfCalls(s.T(), "Embed", 1)

	embeddings, err := s.corpus.AllEmbeddings(s.ctx)
	require.NoError(s.T(), err)
	assert.Contains(s.T(), embeddings, "r-new")
}
