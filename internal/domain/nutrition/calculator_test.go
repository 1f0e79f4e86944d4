package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CalculatorTestSuite struct {
	suite.Suite
}

func (suite *CalculatorTestSuite) referenceProfile() Profile {
	return Profile{
		HeightCM:      180,
		WeightKG:      75,
		Age:           30,
		Gender:        GenderMale,
		ActivityLevel: ActivityModeratelyActive,
		Goal:          GoalBulking,
	}
}

func (suite *CalculatorTestSuite) TestMifflinStJeor() {
	suite.Run("Male_AddsFiveToBase", func() {
		p := suite.referenceProfile()

		// 10*75 + 6.25*180 - 5*30 + 5
		assert.InDelta(suite.T(), 1730.0, BMR(p), 0.001)
	})

	suite.Run("Female_SubtractsConstant", func() {
		p := suite.referenceProfile()
		p.Gender = GenderFemale

		assert.InDelta(suite.T(), 1564.0, BMR(p), 0.001)
	})

	suite.Run("OtherGender_UsesFemaleForm", func() {
		p := suite.referenceProfile()
		p.Gender = GenderOther

		assert.InDelta(suite.T(), 1564.0, BMR(p), 0.001)
	})
}

func (suite *CalculatorTestSuite) TestCalculate() {
	suite.Run("ReferenceProfile_DerivesExactTargets", func() {
		targets := Calculate(suite.referenceProfile())

		assert.InDelta(suite.T(), 1730.0, targets.BMR, 0.001)
		// 1730 * 1.55
		assert.InDelta(suite.T(), 2681.5, targets.TDEE, 0.001)
		// bulking adds 400
		assert.InDelta(suite.T(), 3081.5, targets.TargetCalories, 0.001)
		// bulking split 30/40/30
		assert.InDelta(suite.T(), 231.1, targets.ProteinG, 0.05)
		assert.InDelta(suite.T(), 308.2, targets.CarbsG, 0.05)
		assert.InDelta(suite.T(), 102.7, targets.FatG, 0.05)
	})

	suite.Run("UnknownActivityLevel_DefaultsToLightlyActive", func() {
		p := suite.referenceProfile()
		p.ActivityLevel = "interstellar"

		targets := Calculate(p)
		assert.InDelta(suite.T(), 1730.0*1.375, targets.TDEE, 0.1)
	})

	suite.Run("UnknownGoal_UsesMaintenanceSemantics", func() {
		p := suite.referenceProfile()
		p.Goal = "world_domination"

		targets := Calculate(p)
		// no caloric adjustment
		assert.InDelta(suite.T(), targets.TDEE, targets.TargetCalories, 0.1)
		// maintenance split 30/40/30
		assert.InDelta(suite.T(), targets.TargetCalories*0.30/4, targets.ProteinG, 0.1)
	})

	suite.Run("AggressiveDeficit_NeverDropsBelowFloor", func() {
		p := Profile{
			HeightCM:      150,
			WeightKG:      40,
			Age:           80,
			Gender:        GenderFemale,
			ActivityLevel: ActivitySedentary,
			Goal:          GoalWeightLoss,
		}

		targets := Calculate(p)
		assert.Equal(suite.T(), MinimumCalories, targets.TargetCalories)
	})

	suite.Run("AllMacrosNonNegative", func() {
		profiles := []Profile{
			{HeightCM: 150, WeightKG: 40, Age: 90, Gender: GenderFemale, ActivityLevel: ActivitySedentary, Goal: GoalWeightLoss},
			{HeightCM: 200, WeightKG: 120, Age: 20, Gender: GenderMale, ActivityLevel: ActivityExtremelyActive, Goal: GoalBulking},
			{HeightCM: 165, WeightKG: 60, Age: 45, Gender: GenderOther, ActivityLevel: ActivityModeratelyActive, Goal: GoalCutting},
		}

		for _, p := range profiles {
			targets := Calculate(p)
			assert.GreaterOrEqual(suite.T(), targets.TargetCalories, MinimumCalories)
			assert.GreaterOrEqual(suite.T(), targets.ProteinG, 0.0)
			assert.GreaterOrEqual(suite.T(), targets.CarbsG, 0.0)
			assert.GreaterOrEqual(suite.T(), targets.FatG, 0.0)
		}
	})
}

func (suite *CalculatorTestSuite) TestProfileValidate() {
	suite.Run("ValidProfile_NoError", func() {
		assert.NoError(suite.T(), suite.referenceProfile().Validate())
	})

	suite.Run("NonPositiveMetrics_ReturnSentinels", func() {
		p := suite.referenceProfile()
		p.HeightCM = 0
		assert.ErrorIs(suite.T(), p.Validate(), ErrInvalidHeight)

		p = suite.referenceProfile()
		p.WeightKG = -1
		assert.ErrorIs(suite.T(), p.Validate(), ErrInvalidWeight)

		p = suite.referenceProfile()
		p.Age = 0
		assert.ErrorIs(suite.T(), p.Validate(), ErrInvalidAge)
	})
}

func TestCalculatorTestSuite(t *testing.T) {
	suite.Run(t, new(CalculatorTestSuite))
}
