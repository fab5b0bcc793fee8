package service

import (
	"context"
	"testing"

	"github.com/pageza/snapcal/backend/internal/testhelpers"
	"github.com/pageza/snapcal/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfileRequest() *types.ProfileRequest {
	return &types.ProfileRequest{
		Name:          "Alex",
		HeightCM:      170,
		WeightKG:      70,
		Age:           25,
		Sex:           "male",
		ActivityLevel: "moderate",
		Goal:          "fat_loss",
	}
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	t.Run("should report missing profile and fallback target", func(t *testing.T) {
		svc := NewProfileService(testhelpers.NewTestDB(t))

		_, err := svc.GetProfile(ctx)
		assert.ErrorIs(t, err, ErrProfileNotFound)

		target, err := svc.TargetCalories(ctx)
		require.NoError(t, err)
		assert.Equal(t, FallbackTargetCalories, target)
	})

	t.Run("should create then overwrite the single profile", func(t *testing.T) {
		db := testhelpers.NewTestDB(t)
		svc := NewProfileService(db)

		first, err := svc.SaveProfile(ctx, validProfileRequest())
		require.NoError(t, err)
		assert.Equal(t, "fat_loss", first.Goal)

		req := validProfileRequest()
		req.Goal = "gain-muscle"
		req.WeightKG = 72
		second, err := svc.SaveProfile(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "muscle_gain", second.Goal)
		assert.Equal(t, 72.0, second.WeightKG)
		var count int64
		require.NoError(t, db.Table("profiles").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("should compute target from profile", func(t *testing.T) {
		svc := NewProfileService(testhelpers.NewTestDB(t))
		_, err := svc.SaveProfile(ctx, validProfileRequest())
		require.NoError(t, err)

		target, err := svc.TargetCalories(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2046, target)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		svc := NewProfileService(testhelpers.NewTestDB(t))
		cases := []func(r *types.ProfileRequest){
			func(r *types.ProfileRequest) { r.Sex = "other" },
			func(r *types.ProfileRequest) { r.ActivityLevel = "extreme" },
			func(r *types.ProfileRequest) { r.Goal = "cut" },
			func(r *types.ProfileRequest) { r.Age = 0 },
			func(r *types.ProfileRequest) { r.HeightCM = -1 },
		}
		for _, mutate := range cases {
			req := validProfileRequest()
			mutate(req)

			_, err := svc.SaveProfile(ctx, req)

			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	t.Run("should build response with targets", func(t *testing.T) {
		svc := NewProfileService(testhelpers.NewTestDB(t))
		p, err := svc.SaveProfile(ctx, validProfileRequest())
		require.NoError(t, err)

		resp := ToProfileResponse(p)

		assert.Equal(t, 1642.5, resp.BMR)
		assert.Equal(t, 2046, resp.TargetCalories)
	})
}

func TestSettingsService(t *testing.T) {
	ctx := context.Background()

	t.Run("should default to gpt", func(t *testing.T) {
		svc := NewSettingsService(testhelpers.NewTestDB(t))

		s, err := svc.Current(ctx)

		require.NoError(t, err)
		assert.Equal(t, "gpt", s.Provider)
		assert.Equal(t, "metric", s.UnitSystem)
		assert.False(t, s.ToResponse().HasOpenAIKey)
	})

	t.Run("should patch only provided fields", func(t *testing.T) {
		svc := NewSettingsService(testhelpers.NewTestDB(t))
		provider, key, onboarded := "gemini", " g-key ", true

		_, err := svc.Update(ctx, &types.SettingsRequest{Provider: &provider, GeminiKey: &key})
		require.NoError(t, err)
		s, err := svc.Update(ctx, &types.SettingsRequest{Onboarded: &onboarded})
		require.NoError(t, err)

		assert.Equal(t, "gemini", s.Provider)
		assert.Equal(t, "g-key", s.GeminiKey)
		assert.Equal(t, "g-key", s.Credential(ProviderOnDevice))
		assert.True(t, s.Onboarded)
		resp := s.ToResponse()
		assert.True(t, resp.HasGeminiKey)
		assert.False(t, resp.HasOpenAIKey)
	})

	t.Run("should store unknown provider as given", func(t *testing.T) {
		svc := NewSettingsService(testhelpers.NewTestDB(t))
		provider := "llava"

		s, err := svc.Update(ctx, &types.SettingsRequest{Provider: &provider})

		require.NoError(t, err)
		assert.Equal(t, "llava", s.Provider)
	})

	t.Run("should reject unknown unit system", func(t *testing.T) {
		svc := NewSettingsService(testhelpers.NewTestDB(t))
		unit := "furlongs"

		_, err := svc.Update(ctx, &types.SettingsRequest{UnitSystem: &unit})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
