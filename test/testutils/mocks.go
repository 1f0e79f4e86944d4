// Package testutils provides mock implementations and test data factories
// for deterministic pipeline testing.
package testutils

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/domain/recipe"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockCandidateStore provides a mock implementation of CandidateStore
type MockCandidateStore struct {
	mock.Mock
}

// NewMockCandidateStore creates a new mock candidate store
func NewMockCandidateStore() *MockCandidateStore {
	return &MockCandidateStore{}
}

// Search returns the configured candidates
func (m *MockCandidateStore) Search(ctx context.Context, query string, filter outbound.SearchFilter, limit int) ([]recipe.Candidate, error) {
	args := m.Called(ctx, query, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.Candidate), args.Error(1)
}

// GetByID returns the configured candidate
func (m *MockCandidateStore) GetByID(ctx context.Context, id string) (*recipe.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Candidate), args.Error(1)
}

// MockTextGenerator provides a mock implementation of TextGenerator
type MockTextGenerator struct {
	mock.Mock
}

// NewMockTextGenerator creates a new mock text generator
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{}
}

// Generate returns the configured response text
func (m *MockTextGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, opts outbound.GenerateOptions) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, opts)
	return args.String(0), args.Error(1)
}

// MockHistoryProvider provides a mock implementation of HistoryProvider
type MockHistoryProvider struct {
	mock.Mock
}

// NewMockHistoryProvider creates a new mock history provider
func NewMockHistoryProvider() *MockHistoryProvider {
	return &MockHistoryProvider{}
}

// RecentTurns returns the configured turns
func (m *MockHistoryProvider) RecentTurns(ctx context.Context, userID uuid.UUID, limit int) ([]outbound.ChatTurn, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outbound.ChatTurn), args.Error(1)
}

// AppendTurn records a turn
func (m *MockHistoryProvider) AppendTurn(ctx context.Context, userID uuid.UUID, turn outbound.ChatTurn) error {
	args := m.Called(ctx, userID, turn)
	return args.Error(0)
}

// MockPlanRepository provides a mock implementation of PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

// NewMockPlanRepository creates a new mock plan repository
func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{}
}

// SaveLatest stores the latest plan for a user
func (m *MockPlanRepository) SaveLatest(ctx context.Context, userID uuid.UUID, p plan.Plan) error {
	args := m.Called(ctx, userID, p)
	return args.Error(0)
}

// GetLatest returns the latest plan for a user
func (m *MockPlanRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*plan.Plan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

// MockEmbedder provides a mock implementation of Embedder
type MockEmbedder struct {
	mock.Mock
}

// NewMockEmbedder creates a new mock embedder
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// Embed returns the configured vector
func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockPlannerService provides a mock implementation of the planner use cases
type MockPlannerService struct {
	mock.Mock
}

// NewMockPlannerService creates a new mock planner service
func NewMockPlannerService() *MockPlannerService {
	return &MockPlannerService{}
}

// ComputeTargets returns the configured targets
func (m *MockPlannerService) ComputeTargets(ctx context.Context, profile nutrition.Profile) (nutrition.Targets, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(nutrition.Targets), args.Error(1)
}

// SearchRecipes returns the configured candidates
func (m *MockPlannerService) SearchRecipes(ctx context.Context, query inbound.SearchRecipesQuery) ([]recipe.Candidate, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recipe.Candidate), args.Error(1)
}

// GenerateMealPlan returns the configured result
func (m *MockPlannerService) GenerateMealPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*inbound.PlanResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.PlanResult), args.Error(1)
}

// LatestMealPlan returns the configured plan
func (m *MockPlannerService) LatestMealPlan(ctx context.Context, userID uuid.UUID) (*plan.Plan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

// MockProfileRepository provides a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

// NewMockProfileRepository creates a new mock profile repository
func NewMockProfileRepository() *MockProfileRepository {
	return &MockProfileRepository{}
}

// Save stores a profile
func (m *MockProfileRepository) Save(ctx context.Context, userID uuid.UUID, profile nutrition.Profile) error {
	args := m.Called(ctx, userID, profile)
	return args.Error(0)
}

// Get returns the stored profile
func (m *MockProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*nutrition.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*nutrition.Profile), args.Error(1)
}

// compile-time interface checks
var (
	_ inbound.PlannerService     = (*MockPlannerService)(nil)
	_ outbound.ProfileRepository = (*MockProfileRepository)(nil)
	_ outbound.CandidateStore    = (*MockCandidateStore)(nil)
	_ outbound.TextGenerator     = (*MockTextGenerator)(nil)
	_ outbound.HistoryProvider   = (*MockHistoryProvider)(nil)
	_ outbound.PlanRepository    = (*MockPlanRepository)(nil)
	_ outbound.Embedder          = (*MockEmbedder)(nil)
)
