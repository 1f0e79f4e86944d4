package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProfileNotFound is returned when a user has no stored profile.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository implements profile persistence using GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) outbound.ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save stores the profile for a user, replacing any previous one
func (r *ProfileRepository) Save(ctx context.Context, userID uuid.UUID, profile nutrition.Profile) error {
	model := ProfileToModel(profile)
	model.UserID = userID

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(model)
	return result.Error
}

// Get returns the stored profile for a user
func (r *ProfileRepository) Get(ctx context.Context, userID uuid.UUID) (*nutrition.Profile, error) {
	var model ProfileModel

	result := r.db.WithContext(ctx).First(&model, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, result.Error
	}

	profile := ModelToProfile(&model)
	return &profile, nil
}
