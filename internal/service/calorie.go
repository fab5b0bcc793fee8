package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
	"gorm.io/gorm"
)

// MealType classifies a food entry
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func ParseMealType(v string) (MealType, error) {
	switch m := MealType(strings.ToLower(strings.TrimSpace(v))); m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return m, nil
	}
	return "", fmt.Errorf("%w: meal type %q", ErrInvalidInput, v)
}

// ParseDate validates a YYYY-MM-DD date
func ParseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInput, v)
	}
	return t, nil
}

// CalorieService stores food entries and answers the aggregate queries
type CalorieService struct {
	db *gorm.DB
}

func NewCalorieService(db *gorm.DB) *CalorieService {
	return &CalorieService{db: db}
}

func (s *CalorieService) requireProfile(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Profile{}).Where("id = ?", models.ActiveProfileID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if count == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// AddAnalysisEntries saves one entry per food item. The items are written in
// a single transaction, so either all of them are stored or none.
func (s *CalorieService) AddAnalysisEntries(ctx context.Context, result *types.FoodAnalysisResult, imageRef *string, meal MealType, loggedAt time.Time) ([]models.FoodEntry, error) {
	if result == nil || len(result.Foods) == 0 {
		return nil, fmt.Errorf("%w: analysis has no food items", ErrInvalidInput)
	}

	entries := make([]models.FoodEntry, len(result.Foods))
	for i, item := range result.Foods {
		confidence := item.Confidence
		entries[i] = models.FoodEntry{
			ProfileID:    models.ActiveProfileID,
			FoodName:     item.Name,
			Calories:     item.Calories,
			Protein:      item.Protein,
			Carbs:        item.Carbs,
			Fat:          item.Fat,
			Portion:      item.Portion,
			MealType:     string(meal),
			ImageRef:     imageRef,
			Date:         loggedAt.Format(models.DateLayout),
			LoggedAt:     loggedAt,
			AIConfidence: &confidence,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireProfile(tx); err != nil {
			return err
		}
		for i := range entries {
			if err := tx.Create(&entries[i]).Error; err != nil {
				return fmt.Errorf("failed to save %q: %w", entries[i].FoodName, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[CalorieService] saved %d analyzed items as %s on %s", len(entries), meal, entries[0].Date)
	return entries, nil
}

// ValidateFoodItem applies the manual entry checks to a user-edited item
func ValidateFoodItem(item *types.FoodItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if item.Calories < 0 || item.Protein < 0 || item.Carbs < 0 || item.Fat < 0 {
		return fmt.Errorf("%w: nutrition values must not be negative", ErrInvalidInput)
	}
	if item.Confidence < 0 || item.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidInput)
	}
	item.Portion = strings.TrimSpace(item.Portion)
	return nil
}

func entryFromRequest(req *types.EntryRequest) (*models.FoodEntry, error) {
	meal, err := ParseMealType(req.MealType)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.FoodName)
	if name == "" {
		return nil, fmt.Errorf("%w: food name is required", ErrInvalidInput)
	}
	if req.Calories < 0 || req.Protein < 0 || req.Carbs < 0 || req.Fat < 0 {
		return nil, fmt.Errorf("%w: nutrition values must not be negative", ErrInvalidInput)
	}
	return &models.FoodEntry{
		FoodName: name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Portion:  strings.TrimSpace(req.Portion),
		MealType: string(meal),
	}, nil
}

// AddManualEntry stores a user-typed entry
func (s *CalorieService) AddManualEntry(ctx context.Context, req *types.EntryRequest, loggedAt time.Time) (*models.FoodEntry, error) {
	entry, err := entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	entry.ProfileID = models.ActiveProfileID
	entry.IsManualEntry = true
	entry.LoggedAt = loggedAt
	entry.Date = loggedAt.Format(models.DateLayout)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requireProfile(tx); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetEntry returns ErrEntryNotFound for unknown ids
func (s *CalorieService) GetEntry(ctx context.Context, id uint) (*models.FoodEntry, error) {
	var entry models.FoodEntry
	if err := s.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	return &entry, nil
}

// UpdateEntry replaces the editable fields of an entry
func (s *CalorieService) UpdateEntry(ctx context.Context, id uint, req *types.EntryRequest) (*models.FoodEntry, error) {
	patch, err := entryFromRequest(req)
	if err != nil {
		return nil, err
	}
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(entry).Select("food_name", "calories", "protein", "carbs", "fat", "portion", "meal_type").
		Updates(patch).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// DeleteEntry removes an entry
func (s *CalorieService) DeleteEntry(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.FoodEntry{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// TodayEntries lists the entries of one date, latest first
func (s *CalorieService) TodayEntries(ctx context.Context, date string) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND date = ?", models.ActiveProfileID, date).
		Order("logged_at DESC").Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// EntriesBetween lists entries with start <= date <= end, latest first
func (s *CalorieService) EntriesBetween(ctx context.Context, start, end string) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND date BETWEEN ? AND ?", models.ActiveProfileID, start, end).
		Order("logged_at DESC").Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// DailyStats returns one row per date that has entries, oldest first.
// Days without entries are omitted.
func (s *CalorieService) DailyStats(ctx context.Context, start, end string) ([]types.DailyStats, error) {
	var stats []types.DailyStats
	err := s.db.WithContext(ctx).Model(&models.FoodEntry{}).
		Select("date, SUM(calories) AS calories, SUM(protein) AS protein, SUM(carbs) AS carbs, SUM(fat) AS fat").
		Where("profile_id = ? AND date BETWEEN ? AND ?", models.ActiveProfileID, start, end).
		Group("date").
		Order("date ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entries: %w", err)
	}
	return stats, nil
}

// WeekRange is the seven days ending on today
func WeekRange(today time.Time) (start, end time.Time) {
	end = truncateDay(today)
	return end.AddDate(0, 0, -6), end
}

// WeeklyStats is DailyStats over the week ending today
func (s *CalorieService) WeeklyStats(ctx context.Context, today time.Time) ([]types.DailyStats, error) {
	start, end := WeekRange(today)
	return s.DailyStats(ctx, start.Format(models.DateLayout), end.Format(models.DateLayout))
}

// AllEntriesForExport lists every entry, latest first
func (s *CalorieService) AllEntriesForExport(ctx context.Context) ([]models.FoodEntry, error) {
	var entries []models.FoodEntry
	err := s.db.WithContext(ctx).
		Where("profile_id = ?", models.ActiveProfileID).
		Order("logged_at DESC").Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}
