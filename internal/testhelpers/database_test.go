package testhelpers

import (
	"testing"
	"time"

	"github.com/pageza/snapcal/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestDB(t *testing.T) {
	t.Run("should isolate databases", func(t *testing.T) {
		a := NewTestDB(t)
		b := NewTestDB(t)
		SeedProfile(t, a)

		var count int64
		require.NoError(t, b.Model(&models.Profile{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("should enforce the profile foreign key", func(t *testing.T) {
		db := NewTestDB(t)

		err := db.Create(&models.FoodEntry{ProfileID: 99, FoodName: "x", MealType: "snack", LoggedAt: time.Now()}).Error

		assert.Error(t, err)
	})

	t.Run("should seed entries", func(t *testing.T) {
		db := NewTestDB(t)
		SeedProfile(t, db)

		e := SeedEntry(t, db, "2024-01-01", 400, time.Now())

		assert.NotZero(t, e.ID)
		assert.Equal(t, 20.0, e.Protein)
	})
}
