package gorm_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/domain/recipe"
	gormrepo "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v2/internal/infrastructure/persistence/sqlite"
	"github.com/mealforge/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type RepositoriesTestSuite struct {
	suite.Suite
	db  *gorm.DB
	ctx context.Context
}

func (s *RepositoriesTestSuite) SetupTest() {
	db, err := sqlite.SetupDatabase("", gormlogger.Silent)
	require.NoError(s.T(), err)
	s.db = db
	s.ctx = context.Background()
}

func TestRepositoriesTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoriesTestSuite))
}

func (s *RepositoriesTestSuite) TestCorpusRoundTrip() {
	corpus := gormrepo.NewCorpusRepository(s.db)
	factory := testutils.NewCandidateFactory(1)

	original := factory.Candidate()
	require.NoError(s.T(), corpus.Create(s.ctx, original))

	found, err := corpus.FindByID(s.ctx, original.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), original.Title, found.Title)
	assert.Equal(s.T(), original.DietaryTags, found.DietaryTags)
	assert.Equal(s.T(), original.Ingredients, found.Ingredients)
	require.NotNil(s.T(), found.Calories)
	assert.InDelta(s.T(), *original.Calories, *found.Calories, 1e-9)
}

func (s *RepositoriesTestSuite) TestCorpusFindByIDUnknown() {
	corpus := gormrepo.NewCorpusRepository(s.db)

	_, err := corpus.FindByID(s.ctx, "missing")
	assert.ErrorIs(s.T(), err, recipe.ErrCandidateNotFound)
}

func (s *RepositoriesTestSuite) TestBulkCreateIsIdempotent() {
	corpus := gormrepo.NewCorpusRepository(s.db)
	factory := testutils.NewCandidateFactory(2)
	batch := factory.Candidates(5)

	require.NoError(s.T(), corpus.BulkCreate(s.ctx, batch))
	require.NoError(s.T(), corpus.BulkCreate(s.ctx, batch))

	count, err := corpus.Count(s.ctx)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 5, count)
}

func (s *RepositoriesTestSuite) TestEmbeddingRoundTrip() {
	corpus := gormrepo.NewCorpusRepository(s.db)
	factory := testutils.NewCandidateFactory(3)
	c := factory.Candidate()
	require.NoError(s.T(), corpus.Create(s.ctx, c))

	vector := []float32{0.25, -1.5, 3.75}
	require.NoError(s.T(), corpus.SaveEmbedding(s.ctx, c.ID, vector))
	// Overwrite is allowed.
	require.NoError(s.T(), corpus.SaveEmbedding(s.ctx, c.ID, vector))

	embeddings, err := corpus.AllEmbeddings(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), embeddings, 1)
	assert.Equal(s.T(), vector, embeddings[c.ID])
}

func (s *RepositoriesTestSuite) TestPlanLatestWinsPerUser() {
	plans := gormrepo.NewPlanRepository(s.db)
	userID := uuid.New()

	first := plan.Plan{Overview: "first plan", Days: []plan.DayPlan{{DayNumber: 1}}}
	second := plan.Plan{Overview: "second plan", Days: []plan.DayPlan{{DayNumber: 1}, {DayNumber: 2}}}

	require.NoError(s.T(), plans.SaveLatest(s.ctx, userID, first))
	require.NoError(s.T(), plans.SaveLatest(s.ctx, userID, second))

	stored, err := plans.GetLatest(s.ctx, userID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), stored)
	assert.Equal(s.T(), "second plan", stored.Overview)
	assert.Len(s.T(), stored.Days, 2)
}

func (s *RepositoriesTestSuite) TestPlanGetLatestUnknownUser() {
	plans := gormrepo.NewPlanRepository(s.db)

	stored, err := plans.GetLatest(s.ctx, uuid.New())
	require.NoError(s.T(), err)
	assert.Nil(s.T(), stored)
}

func (s *RepositoriesTestSuite) TestProfileRoundTrip() {
	profiles := gormrepo.NewProfileRepository(s.db)
	userID := uuid.New()
	original := testutils.ValidProfile()

	require.NoError(s.T(), profiles.Save(s.ctx, userID, original))

	stored, err := profiles.Get(s.ctx, userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), original.Goal, stored.Goal)
	assert.Equal(s.T(), original.DietaryRestrictions, stored.DietaryRestrictions)
	assert.InDelta(s.T(), original.HeightCM, stored.HeightCM, 1e-9)

	// Save replaces.
	updated := original
	updated.WeightKG = 80
	require.NoError(s.T(), profiles.Save(s.ctx, userID, updated))

	stored, err = profiles.Get(s.ctx, userID)
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 80.0, stored.WeightKG, 1e-9)
}

func (s *RepositoriesTestSuite) TestProfileGetUnknownUser() {
	profiles := gormrepo.NewProfileRepository(s.db)

	_, err := profiles.Get(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, gormrepo.ErrProfileNotFound)
}

func (s *RepositoriesTestSuite) TestSeedDatabaseIsIdempotent() {
	require.NoError(s.T(), sqlite.SeedDatabase(s.db))

	corpus := gormrepo.NewCorpusRepository(s.db)
	count, err := corpus.Count(s.ctx)
	require.NoError(s.T(), err)
	assert.Positive(s.T(), count)

	require.NoError(s.T(), sqlite.SeedDatabase(s.db))
	again, err := corpus.Count(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), count, again)
}
