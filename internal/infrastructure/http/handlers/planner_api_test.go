package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/infrastructure/http/handlers"
	gormrepo "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v2/internal/ports/inbound"
	apperrors "github.com/mealforge/v2/pkg/errors"
	"github.com/mealforge/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validProfileBody() map[string]interface{} {
	return map[string]interface{}{
		"height_cm":      180.0,
		"weight_kg":      75.0,
		"age":            30,
		"gender":         "male",
		"activity_level": "moderately_active",
		"goal":           "maintenance",
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestGenerateMealPlanHandler(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	result := &inbound.PlanResult{
		Plan: plan.Plan{
			Overview: "three balanced days",
			Days:     []plan.DayPlan{{DayNumber: 1}, {DayNumber: 2}, {DayNumber: 3}},
		},
	}
	service.On("GenerateMealPlan", mock.Anything, mock.MatchedBy(func(cmd inbound.GenerateMealPlanCommand) bool {
		return cmd.Days == 3 && cmd.Query == "high protein"
	})).Return(result, nil).Once()

	rec := postJSON(t, h.GenerateMealPlan, map[string]interface{}{
		"query":   "high protein",
		"days":    3,
		"profile": validProfileBody(),
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	service.AssertExpectations(t)
}

func TestGenerateMealPlanHandlerRejectsBadBody(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	h.GenerateMealPlan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "GenerateMealPlan", mock.Anything, mock.Anything)
}

func TestGenerateMealPlanHandlerRejectsInvalidProfile(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	profile := validProfileBody()
	profile["age"] = 0

	rec := postJSON(t, h.GenerateMealPlan, map[string]interface{}{
		"query":   "anything",
		"profile": profile,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handlers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(apperrors.CodeValidationFailed), resp.Code)
}

func TestGenerateMealPlanHandlerMapsPipelineErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "provider failure",
			err:        apperrors.NewGenerationProviderError(errors.New("timeout")),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   string(apperrors.CodeGenerationProviderError),
		},
		{
			name:       "parse failure",
			err:        apperrors.NewGenerationParseError(errors.New("bad json"), "raw"),
			wantStatus: http.StatusBadGateway,
			wantCode:   string(apperrors.CodeGenerationParseError),
		},
		{
			name:       "retrieval failure",
			err:        apperrors.NewRetrievalFailedError(errors.New("db down")),
			wantStatus: http.StatusBadGateway,
			wantCode:   string(apperrors.CodeRetrievalFailed),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := testutils.NewMockPlannerService()
			h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())
			service.On("GenerateMealPlan", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			rec := postJSON(t, h.GenerateMealPlan, map[string]interface{}{
				"query":   "anything",
				"profile": validProfileBody(),
			})

			assert.Equal(t, tc.wantStatus, rec.Code)

			var resp handlers.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestLatestMealPlanHandler(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	userID := uuid.New()
	service.On("LatestMealPlan", mock.Anything, userID).
		Return(&plan.Plan{Overview: "stored plan"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/?user_id=%s", userID), nil)
	rec := httptest.NewRecorder()
	h.LatestMealPlan(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stored plan")
}

func TestLatestMealPlanHandlerRequiresUserID(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.LatestMealPlan(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRecipesHandler(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	factory := testutils.NewCandidateFactory(5)
	service.On("SearchRecipes", mock.Anything, mock.Anything).
		Return(factory.Candidates(2), nil).Once()

	rec := postJSON(t, h.SearchRecipes, map[string]interface{}{
		"query":   "quick dinner",
		"top_k":   5,
		"profile": validProfileBody(),
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)
}

func getProfileRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", userID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetProfileHandler(t *testing.T) {
	profiles := testutils.NewMockProfileRepository()
	h := handlers.NewPlannerHandlers(testutils.NewMockPlannerService(), profiles, zap.NewNop())

	userID := uuid.New()
	stored := testutils.ValidProfile()
	profiles.On("Get", mock.Anything, userID).Return(&stored, nil).Once()

	rec := httptest.NewRecorder()
	h.GetProfile(rec, getProfileRequest(userID.String()))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "moderately_active")
}

func TestGetProfileHandlerMissingProfileIs404(t *testing.T) {
	profiles := testutils.NewMockProfileRepository()
	h := handlers.NewPlannerHandlers(testutils.NewMockPlannerService(), profiles, zap.NewNop())

	userID := uuid.New()
	profiles.On("Get", mock.Anything, userID).Return(nil, gormrepo.ErrProfileNotFound).Once()

	rec := httptest.NewRecorder()
	h.GetProfile(rec, getProfileRequest(userID.String()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileHandlerRepositoryFailureIs500(t *testing.T) {
	profiles := testutils.NewMockProfileRepository()
	h := handlers.NewPlannerHandlers(testutils.NewMockPlannerService(), profiles, zap.NewNop())

	userID := uuid.New()
	profiles.On("Get", mock.Anything, userID).Return(nil, errors.New("database is locked")).Once()

	rec := httptest.NewRecorder()
	h.GetProfile(rec, getProfileRequest(userID.String()))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestComputeTargetsHandler(t *testing.T) {
	service := testutils.NewMockPlannerService()
	h := handlers.NewPlannerHandlers(service, testutils.NewMockProfileRepository(), zap.NewNop())

	service.On("ComputeTargets", mock.Anything, mock.Anything).
		Return(nutrition.Calculate(testutils.ValidProfile()), nil).Once()

	rec := postJSON(t, h.ComputeTargets, map[string]interface{}{
		"profile": validProfileBody(),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "target_calories")
}
