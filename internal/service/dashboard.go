package service

import (
	"context"
	"time"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
)

// TodaySummary is the dashboard view of one day
type TodaySummary struct {
	Date           string             `json:"date"`
	Entries        []models.FoodEntry `json:"entries"`
	TotalCalories  int                `json:"total_calories"`
	Macros         types.Macros       `json:"macros"`
	TargetCalories int                `json:"target_calories"`
	Remaining      int                `json:"remaining"`
}

// DashboardService combines entries, aggregates and the calorie target
type DashboardService struct {
	calories *CalorieService
	profiles *ProfileService
}

func NewDashboardService(calories *CalorieService, profiles *ProfileService) *DashboardService {
	return &DashboardService{calories: calories, profiles: profiles}
}

// Today totals the saved entries of the day. Totals are summed from the
// entries, never taken from a provider-reported aggregate.
func (s *DashboardService) Today(ctx context.Context, day time.Time) (*TodaySummary, error) {
	date := day.Format(models.DateLayout)
	entries, err := s.calories.TodayEntries(ctx, date)
	if err != nil {
		return nil, err
	}
	target, err := s.profiles.TargetCalories(ctx)
	if err != nil {
		return nil, err
	}

	total := TotalCalories(entries)
	if entries == nil {
		entries = []models.FoodEntry{}
	}
	return &TodaySummary{
		Date:           date,
		Entries:        entries,
		TotalCalories:  total,
		Macros:         MacroTotals(entries),
		TargetCalories: target,
		Remaining:      target - total,
	}, nil
}

// Week returns the seven days ending today, zero-filled for charts
func (s *DashboardService) Week(ctx context.Context, today time.Time) ([]types.DailyStats, error) {
	stats, err := s.calories.WeeklyStats(ctx, today)
	if err != nil {
		return nil, err
	}
	start, end := WeekRange(today)
	return FillDailySeries(stats, start, end), nil
}
