// Package gorm provides GORM model definitions and repositories for the
// recipe corpus, stored plans and user profiles.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CandidateModel represents the GORM model for corpus recipes
type CandidateModel struct {
	ID          string `gorm:"type:varchar(64);primaryKey"`
	Title       string `gorm:"type:varchar(255);not null;index"`
	Description string `gorm:"type:text"`
	Cuisine     string `gorm:"type:varchar(50);index"`

	// Nutrition per serving; nullable because corpus sources vary
	Calories *float64
	ProteinG *float64 `gorm:"column:protein_g"`
	CarbsG   *float64 `gorm:"column:carbs_g"`
	FatG     *float64 `gorm:"column:fat_g"`

	Ingredients  StringSlice `gorm:"type:json"`
	Instructions StringSlice `gorm:"type:json"`
	TimeMinutes  *int        `gorm:"column:time_minutes"`

	MealTypes   StringSlice `gorm:"type:json"`
	DietaryTags StringSlice `gorm:"type:json"`
	Allergens   StringSlice `gorm:"type:json"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// EmbeddingModel stores one embedding vector per corpus recipe. The vector
// is serialized to a little-endian float32 blob.
type EmbeddingModel struct {
	RecipeID  string `gorm:"type:varchar(64);primaryKey"`
	Vector    []byte `gorm:"type:blob;not null"`
	Dimension int    `gorm:"not null"`
	CreatedAt time.Time
}

// PlanModel stores the latest generated plan per user, last write wins.
// The plan itself is stored as its JSON wire form rather than normalized
// rows; plans are read back whole and never queried by meal.
type PlanModel struct {
	UserID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Document  string    `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileModel represents the GORM model for user nutrition profiles
type ProfileModel struct {
	UserID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	HeightCM      float64   `gorm:"column:height_cm;not null"`
	WeightKG      float64   `gorm:"column:weight_kg;not null"`
	Age           int       `gorm:"not null"`
	Gender        string    `gorm:"type:varchar(20);not null"`
	ActivityLevel string    `gorm:"type:varchar(30);not null"`
	Goal          string    `gorm:"type:varchar(30);not null"`

	DietaryRestrictions StringSlice `gorm:"type:json"`
	AllergensToAvoid    StringSlice `gorm:"type:json"`
	CuisinePreferences  StringSlice `gorm:"type:json"`
	Region              string      `gorm:"type:varchar(50)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// TableName methods for custom table names
func (CandidateModel) TableName() string {
	return "recipes"
}

func (EmbeddingModel) TableName() string {
	return "recipe_embeddings"
}

func (PlanModel) TableName() string {
	return "meal_plans"
}

func (ProfileModel) TableName() string {
	return "profiles"
}
