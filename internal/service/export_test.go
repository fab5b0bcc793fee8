package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/pageza/snapcal/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	t.Run("should write header only for no entries", func(t *testing.T) {
		var buf bytes.Buffer

		require.NoError(t, WriteCSV(&buf, nil))

		assert.Equal(t, CSVHeader+"\n", buf.String())
	})

	t.Run("should quote and escape text fields", func(t *testing.T) {
		entries := []models.FoodEntry{
			{Date: "2024-01-02", MealType: "dinner", FoodName: `Mac "n" cheese, baked`, Calories: 610, Protein: 24, Carbs: 61.5, Fat: 30.25, Portion: `1 "big" bowl`},
			{Date: "2024-01-01", MealType: "snack", FoodName: "Apple", Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3, Portion: ""},
		}
		var buf bytes.Buffer

		require.NoError(t, WriteCSV(&buf, entries))

		lines := strings.Split(buf.String(), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "Date,Meal Type,Food Name,Calories,Protein(g),Carbs(g),Fat(g),Portion", lines[0])
		assert.Equal(t, `2024-01-02,DINNER,"Mac ""n"" cheese, baked",610,24.0,61.5,30.25,"1 ""big"" bowl"`, lines[1])
		assert.Equal(t, `2024-01-01,SNACK,"Apple",95,0.5,25.0,0.3,""`, lines[2])
	})
}

func TestCalorieService_ExportCSV(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	testhelpers.SeedProfile(t, db)
	testhelpers.SeedEntry(t, db, "2024-01-01", 100, at("2024-01-01", 8))
	testhelpers.SeedEntry(t, db, "2024-01-03", 300, at("2024-01-03", 8))
	testhelpers.SeedEntry(t, db, "2024-01-02", 200, at("2024-01-02", 8))
	var buf bytes.Buffer

	require.NoError(t, NewCalorieService(db).ExportCSV(context.Background(), &buf))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2024-01-03,LUNCH,"))
	assert.True(t, strings.HasPrefix(lines[3], "2024-01-01,LUNCH,"))
}
