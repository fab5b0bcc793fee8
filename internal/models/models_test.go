package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoodEntryBeforeCreate(t *testing.T) {
	t.Run("should derive date from logged time", func(t *testing.T) {
		loggedAt := time.Date(2024, 3, 9, 22, 15, 0, 0, time.Local)
		e := &FoodEntry{LoggedAt: loggedAt}

		require.NoError(t, e.BeforeCreate(nil))

		assert.Equal(t, "2024-03-09", e.Date)
	})

	t.Run("should keep explicit date", func(t *testing.T) {
		e := &FoodEntry{Date: "2024-01-01", LoggedAt: time.Now()}

		require.NoError(t, e.BeforeCreate(nil))

		assert.Equal(t, "2024-01-01", e.Date)
	})

	t.Run("should stamp missing logged time", func(t *testing.T) {
		e := &FoodEntry{}

		require.NoError(t, e.BeforeCreate(nil))

		assert.False(t, e.LoggedAt.IsZero())
		assert.Equal(t, e.LoggedAt.Format(DateLayout), e.Date)
	})
}
