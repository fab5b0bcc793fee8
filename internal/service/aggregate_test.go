package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalCalories(t *testing.T) {
	entries := []models.FoodEntry{{Calories: 500}, {Calories: 300}, {Calories: 700}}

	assert.Equal(t, 1500, TotalCalories(entries))
	assert.Equal(t, 0, TotalCalories(nil))
}

func TestMacroTotals(t *testing.T) {
	t.Run("should sum each macro", func(t *testing.T) {
		entries := []models.FoodEntry{
			{Protein: 10.5, Carbs: 20, Fat: 1.25},
			{Protein: 4.5, Carbs: 0.5, Fat: 3},
		}

		got := MacroTotals(entries)

		assert.InDelta(t, 15.0, got.Protein, 1e-9)
		assert.InDelta(t, 20.5, got.Carbs, 1e-9)
		assert.InDelta(t, 4.25, got.Fat, 1e-9)
	})

	t.Run("should be invariant under permutation", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		entries := make([]models.FoodEntry, 50)
		for i := range entries {
			entries[i] = models.FoodEntry{Protein: rng.Float64() * 1e3, Carbs: rng.Float64() * 1e-3, Fat: rng.Float64() * 37.3}
		}
		want := MacroTotals(entries)

		for i := 0; i < 20; i++ {
			shuffled := append([]models.FoodEntry(nil), entries...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

			assert.Equal(t, want, MacroTotals(shuffled))
		}
	})

	t.Run("should not reorder caller slice", func(t *testing.T) {
		entries := []models.FoodEntry{{Protein: 3}, {Protein: 1}, {Protein: 2}}

		MacroTotals(entries)

		assert.Equal(t, 3.0, entries[0].Protein)
	})
}

func TestFillDailySeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 8, 0, 0, 0, time.UTC)
	stats := []types.DailyStats{
		{Date: "2024-01-01", Calories: 800},
		{Date: "2024-01-03", Calories: 700, Protein: 12},
	}

	series := FillDailySeries(stats, start, end)

	require.Len(t, series, 4)
	assert.Equal(t, types.DailyStats{Date: "2024-01-01", Calories: 800}, series[0])
	assert.Equal(t, types.DailyStats{Date: "2024-01-02"}, series[1])
	assert.Equal(t, 12.0, series[2].Protein)
	assert.Equal(t, types.DailyStats{Date: "2024-01-04"}, series[3])
}
