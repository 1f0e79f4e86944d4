package gorm

import (
	"encoding/binary"
	"math"

	"github.com/mealforge/v2/internal/domain/nutrition"
	"github.com/mealforge/v2/internal/domain/recipe"
)

// CandidateToModel converts a domain candidate to its GORM model.
func CandidateToModel(c recipe.Candidate) *CandidateModel {
	return &CandidateModel{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Cuisine:      c.Cuisine,
		Calories:     c.Calories,
		ProteinG:     c.ProteinG,
		CarbsG:       c.CarbsG,
		FatG:         c.FatG,
		Ingredients:  StringSlice(c.Ingredients),
		Instructions: StringSlice(c.Instructions),
		TimeMinutes:  c.TimeMinutes,
		MealTypes:    StringSlice(c.MealTypes),
		DietaryTags:  StringSlice(c.DietaryTags),
		Allergens:    StringSlice(c.Allergens),
	}
}

// ModelToCandidate converts a GORM model back to the domain candidate.
// The relevance score is a retrieval-time property and is left unset.
func ModelToCandidate(m *CandidateModel) recipe.Candidate {
	return recipe.Candidate{
		ID:           m.ID,
		Title:        m.Title,
		Description:  m.Description,
		Cuisine:      m.Cuisine,
		Calories:     m.Calories,
		ProteinG:     m.ProteinG,
		CarbsG:       m.CarbsG,
		FatG:         m.FatG,
		Ingredients:  []string(m.Ingredients),
		Instructions: []string(m.Instructions),
		TimeMinutes:  m.TimeMinutes,
		MealTypes:    []string(m.MealTypes),
		DietaryTags:  []string(m.DietaryTags),
		Allergens:    []string(m.Allergens),
	}
}

// ProfileToModel converts a domain profile to its GORM model.
func ProfileToModel(p nutrition.Profile) *ProfileModel {
	return &ProfileModel{
		HeightCM:            p.HeightCM,
		WeightKG:            p.WeightKG,
		Age:                 p.Age,
		Gender:              string(p.Gender),
		ActivityLevel:       string(p.ActivityLevel),
		Goal:                string(p.Goal),
		DietaryRestrictions: StringSlice(p.DietaryRestrictions),
		AllergensToAvoid:    StringSlice(p.AllergensToAvoid),
		CuisinePreferences:  StringSlice(p.CuisinePreferences),
		Region:              p.Region,
	}
}

// ModelToProfile converts a GORM model back to the domain profile.
func ModelToProfile(m *ProfileModel) nutrition.Profile {
	return nutrition.Profile{
		HeightCM:            m.HeightCM,
		WeightKG:            m.WeightKG,
		Age:                 m.Age,
		Gender:              nutrition.Gender(m.Gender),
		ActivityLevel:       nutrition.ActivityLevel(m.ActivityLevel),
		Goal:                nutrition.Goal(m.Goal),
		DietaryRestrictions: []string(m.DietaryRestrictions),
		AllergensToAvoid:    []string(m.AllergensToAvoid),
		CuisinePreferences:  []string(m.CuisinePreferences),
		Region:              m.Region,
	}
}

// encodeVector serializes an embedding to a little-endian float32 blob.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector deserializes a little-endian float32 blob.
func decodeVector(data []byte) []float32 {
	vector := make([]float32, len(data)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vector
}
