package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileService manages the single active profile
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile returns ErrProfileNotFound before the first save
func (s *ProfileService) GetProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).First(&p, models.ActiveProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &p, nil
}

// SaveProfile creates the profile or overwrites it in place
func (s *ProfileService) SaveProfile(ctx context.Context, req *types.ProfileRequest) (*models.Profile, error) {
	sex, err := ParseSex(req.Sex)
	if err != nil {
		return nil, err
	}
	level, err := ParseActivityLevel(req.ActivityLevel)
	if err != nil {
		return nil, err
	}
	goal, err := ParseGoal(req.Goal)
	if err != nil {
		return nil, err
	}
	if req.HeightCM <= 0 || req.WeightKG <= 0 || req.Age <= 0 {
		return nil, fmt.Errorf("%w: height, weight and age must be positive", ErrInvalidInput)
	}

	p := &models.Profile{
		ID:            models.ActiveProfileID,
		Name:          strings.TrimSpace(req.Name),
		HeightCM:      req.HeightCM,
		WeightKG:      req.WeightKG,
		Age:           req.Age,
		Sex:           string(sex),
		ActivityLevel: string(level),
		Goal:          string(goal),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "height_cm", "weight_kg", "age", "sex", "activity_level", "goal", "updated_at"}),
	}).Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	log.Printf("[ProfileService] saved profile (goal=%s, activity=%s)", goal, level)
	return s.GetProfile(ctx)
}

// TargetCalories is the profile's daily target, or the fallback without a profile
func (s *ProfileService) TargetCalories(ctx context.Context) (int, error) {
	p, err := s.GetProfile(ctx)
	if errors.Is(err, ErrProfileNotFound) {
		return FallbackTargetCalories, nil
	}
	if err != nil {
		return 0, err
	}
	_, _, target := ProfileTargets(p)
	return target, nil
}

// ToProfileResponse adds the computed targets to the stored profile
func ToProfileResponse(p *models.Profile) types.ProfileResponse {
	bmr, tdee, target := ProfileTargets(p)
	return types.ProfileResponse{
		Name:           p.Name,
		HeightCM:       p.HeightCM,
		WeightKG:       p.WeightKG,
		Age:            p.Age,
		Sex:            p.Sex,
		ActivityLevel:  p.ActivityLevel,
		Goal:           p.Goal,
		BMR:            bmr,
		TDEE:           tdee,
		TargetCalories: target,
	}
}
