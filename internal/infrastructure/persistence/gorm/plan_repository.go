package gorm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/plan"
	"github.com/mealforge/v2/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlanRepository implements latest-plan persistence using GORM
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *gorm.DB) outbound.PlanRepository {
	return &PlanRepository{db: db}
}

// SaveLatest stores the plan for a user, replacing any previous one
func (r *PlanRepository) SaveLatest(ctx context.Context, userID uuid.UUID, p plan.Plan) error {
	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize plan: %w", err)
	}

	model := &PlanModel{
		UserID:   userID,
		Document: string(document),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(model)
	return result.Error
}

// GetLatest returns the stored plan for a user, or nil when none exists
func (r *PlanRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*plan.Plan, error) {
	var model PlanModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	var p plan.Plan
	if err := json.Unmarshal([]byte(model.Document), &p); err != nil {
		return nil, fmt.Errorf("failed to deserialize stored plan: %w", err)
	}
	return &p, nil
}
