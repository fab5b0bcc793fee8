package service

import (
	"sort"
	"time"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
)

// TotalCalories sums the calories of the entries
func TotalCalories(entries []models.FoodEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Calories
	}
	return total
}

// MacroTotals sums each macro. Values are added in sorted order so the
// result does not depend on the order of entries.
func MacroTotals(entries []models.FoodEntry) types.Macros {
	protein := make([]float64, len(entries))
	carbs := make([]float64, len(entries))
	fat := make([]float64, len(entries))
	for i, e := range entries {
		protein[i], carbs[i], fat[i] = e.Protein, e.Carbs, e.Fat
	}
	return types.Macros{
		Protein: sortedSum(protein),
		Carbs:   sortedSum(carbs),
		Fat:     sortedSum(fat),
	}
}

func sortedSum(values []float64) float64 {
	sort.Float64s(values)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// FillDailySeries returns one row per day from start to end inclusive,
// with zero rows for days missing from stats
func FillDailySeries(stats []types.DailyStats, start, end time.Time) []types.DailyStats {
	byDate := make(map[string]types.DailyStats, len(stats))
	for _, s := range stats {
		byDate[s.Date] = s
	}

	var series []types.DailyStats
	day := truncateDay(start)
	last := truncateDay(end)
	for !day.After(last) {
		date := day.Format(models.DateLayout)
		if s, ok := byDate[date]; ok {
			series = append(series, s)
		} else {
			series = append(series, types.DailyStats{Date: date})
		}
		day = day.AddDate(0, 0, 1)
	}
	return series
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
