// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	gormrepo "github.com/mealforge/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealforge/v2/internal/ports/inbound"
	"github.com/mealforge/v2/internal/ports/outbound"
	apperrors "github.com/mealforge/v2/pkg/errors"
	"go.uber.org/zap"
)

// PlannerHandlers handles REST API requests for the planning pipeline
type PlannerHandlers struct {
	service  inbound.PlannerService
	profiles outbound.ProfileRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPlannerHandlers creates a new planner handlers instance
func NewPlannerHandlers(
	service inbound.PlannerService,
	profiles outbound.ProfileRepository,
	logger *zap.Logger,
) *PlannerHandlers {
	return &PlannerHandlers{
		service:  service,
		profiles: profiles,
		validate: validator.New(),
		logger:   logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ProfileRequest is the wire form of a nutrition profile
type ProfileRequest struct {
	HeightCM            float64  `json:"height_cm" validate:"required,gt=0"`
	WeightKG            float64  `json:"weight_kg" validate:"required,gt=0"`
	Age                 int      `json:"age" validate:"required,gt=0,lte=120"`
	Gender              string   `json:"gender" validate:"required,oneof=male female other"`
	ActivityLevel       string   `json:"activity_level" validate:"required"`
	Goal                string   `json:"goal" validate:"required"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	AllergensToAvoid    []string `json:"allergens_to_avoid"`
	CuisinePreferences  []string `json:"cuisine_preferences"`
	Region              string   `json:"region"`
}

func (p ProfileRequest) toDomain() nutrition.Profile {
	return nutrition.Profile{
		HeightCM:            p.HeightCM,
		WeightKG:            p.WeightKG,
		Age:                 p.Age,
		Gender:              nutrition.Gender(p.Gender),
		ActivityLevel:       nutrition.ActivityLevel(p.ActivityLevel),
		Goal:                nutrition.Goal(p.Goal),
		DietaryRestrictions: p.DietaryRestrictions,
		AllergensToAvoid:    p.AllergensToAvoid,
		CuisinePreferences:  p.CuisinePreferences,
		Region:              p.Region,
	}
}

// GenerateMealPlanRequest is the body of POST /meal-plans
type GenerateMealPlanRequest struct {
	Query   string         `json:"query"`
	Days    int            `json:"days" validate:"gte=0,lte=30"`
	UserID  string         `json:"user_id" validate:"omitempty,uuid4"`
	Profile ProfileRequest `json:"profile" validate:"required"`
}

// SearchRecipesRequest is the body of POST /recipes/search
type SearchRecipesRequest struct {
	Query   string         `json:"query" validate:"required"`
	TopK    int            `json:"top_k" validate:"gte=0,lte=30"`
	Profile ProfileRequest `json:"profile" validate:"required"`
}

// TargetsRequest is the body of POST /nutrition/targets
type TargetsRequest struct {
	Profile ProfileRequest `json:"profile" validate:"required"`
}

// GenerateMealPlan handles POST /api/v1/meal-plans
func (h *PlannerHandlers) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req GenerateMealPlanRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	userID := uuid.Nil
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			h.writeError(w, apperrors.NewBadRequestError("user_id must be a valid UUID"))
			return
		}
		userID = parsed
	}

	result, err := h.service.GenerateMealPlan(r.Context(), inbound.GenerateMealPlanCommand{
		Query:   req.Query,
		Profile: req.Profile.toDomain(),
		Days:    req.Days,
		UserID:  userID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
		Message: "Meal plan generated successfully",
	})
}

// LatestMealPlan handles GET /api/v1/meal-plans/latest
func (h *PlannerHandlers) LatestMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, apperrors.NewBadRequestError("user_id query parameter must be a valid UUID"))
		return
	}

	p, err := h.service.LatestMealPlan(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    p,
		Message: "Meal plan retrieved successfully",
	})
}

// SearchRecipes handles POST /api/v1/recipes/search
func (h *PlannerHandlers) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	var req SearchRecipesRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	candidates, err := h.service.SearchRecipes(r.Context(), inbound.SearchRecipesQuery{
		Query:   req.Query,
		Profile: req.Profile.toDomain(),
		TopK:    req.TopK,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    candidates,
		Message: "Recipes retrieved successfully",
	})
}

// ComputeTargets handles POST /api/v1/nutrition/targets
func (h *PlannerHandlers) ComputeTargets(w http.ResponseWriter, r *http.Request) {
	var req TargetsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	targets, err := h.service.ComputeTargets(r.Context(), req.Profile.toDomain())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    targets,
		Message: "Targets computed successfully",
	})
}

// SaveProfile handles PUT /api/v1/users/{id}/profile
func (h *PlannerHandlers) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, apperrors.NewBadRequestError("user id must be a valid UUID"))
		return
	}

	var req ProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	profile := req.toDomain()
	if err := profile.Validate(); err != nil {
		h.writeError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.profiles.Save(r.Context(), userID, profile); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Profile saved successfully",
	})
}

// GetProfile handles GET /api/v1/users/{id}/profile
func (h *PlannerHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, apperrors.NewBadRequestError("user id must be a valid UUID"))
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, gormrepo.ErrProfileNotFound) {
			h.writeError(w, apperrors.NewNotFoundError("profile"))
			return
		}
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    profile,
		Message: "Profile retrieved successfully",
	})
}

// HealthCheck handles GET /api/v1/health
func (h *PlannerHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		},
		Message: "Service is healthy",
	})
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, writing the error response itself on failure.
func (h *PlannerHandlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, apperrors.NewBadRequestError("invalid JSON body"))
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.writeError(w, apperrors.NewValidationError(err.Error()))
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code
func (h *PlannerHandlers) writeJSON(w http.ResponseWriter, status int, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError maps an error to its HTTP status and standard response form
func (h *PlannerHandlers) writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("internal server error").WithCause(err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.Error(err))
	}

	h.writeJSON(w, appErr.StatusCode(), APIResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	})
}
