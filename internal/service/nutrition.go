package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/pageza/snapcal/backend/internal/models"
)

// Sex selects the Mifflin-St Jeor constant
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ActivityLevel is the five-step activity scale, lowest first
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Goal adjusts the maintenance calories
type Goal string

const (
	GoalMaintain   Goal = "maintain"
	GoalMuscleGain Goal = "muscle_gain"
	GoalFatLoss    Goal = "fat_loss"
)

// goalAliases maps older client spellings onto the stored values
var goalAliases = map[string]Goal{
	"gain_muscle": GoalMuscleGain,
	"lose_fat":    GoalFatLoss,
}

// FallbackTargetCalories is used when no profile has been saved
const FallbackTargetCalories = 2000

var activityFactors = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

var goalAdjustments = map[Goal]float64{
	GoalMaintain:   0,
	GoalMuscleGain: 300,
	GoalFatLoss:    -500,
}

func normalizeEnum(v string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "-", "_")
}

func ParseSex(v string) (Sex, error) {
	switch s := Sex(normalizeEnum(v)); s {
	case SexMale, SexFemale:
		return s, nil
	}
	return "", fmt.Errorf("%w: sex %q", ErrInvalidInput, v)
}

func ParseActivityLevel(v string) (ActivityLevel, error) {
	a := ActivityLevel(normalizeEnum(v))
	if _, ok := activityFactors[a]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: activity level %q", ErrInvalidInput, v)
}

func ParseGoal(v string) (Goal, error) {
	key := normalizeEnum(v)
	g := Goal(key)
	if alias, ok := goalAliases[key]; ok {
		g = alias
	}
	if _, ok := goalAdjustments[g]; ok {
		return g, nil
	}
	return "", fmt.Errorf("%w: goal %q", ErrInvalidInput, v)
}

// BMR is the Mifflin-St Jeor basal metabolic rate in kcal/day
func BMR(weightKG, heightCM float64, age int, sex Sex) float64 {
	base := 10*weightKG + 6.25*heightCM - 5*float64(age)
	if sex == SexMale {
		return base + 5
	}
	return base - 161
}

// TDEE scales the BMR by the activity factor
func TDEE(bmr float64, level ActivityLevel) float64 {
	return bmr * activityFactors[level]
}

// TargetCalories rounds half away from zero
func TargetCalories(tdee float64, goal Goal) int {
	return int(math.Round(tdee + goalAdjustments[goal]))
}

// ProfileTargets computes BMR, TDEE and the daily target for a stored profile
func ProfileTargets(p *models.Profile) (bmr, tdee float64, target int) {
	bmr = BMR(p.WeightKG, p.HeightCM, p.Age, Sex(p.Sex))
	tdee = TDEE(bmr, ActivityLevel(p.ActivityLevel))
	goal, err := ParseGoal(p.Goal)
	if err != nil {
		goal = GoalMaintain
	}
	return bmr, tdee, TargetCalories(tdee, goal)
}
