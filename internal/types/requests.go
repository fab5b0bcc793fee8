package types

// ProfileRequest creates or replaces the active profile
type ProfileRequest struct {
	Name          string  `json:"name"`
	HeightCM      float64 `json:"height_cm" binding:"required,gt=0"`
	WeightKG      float64 `json:"weight_kg" binding:"required,gt=0"`
	Age           int     `json:"age" binding:"required,gt=0"`
	Sex           string  `json:"sex" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	Goal          string  `json:"goal" binding:"required"`
}

// ProfileResponse is the active profile with its computed targets
type ProfileResponse struct {
	Name           string  `json:"name"`
	HeightCM       float64 `json:"height_cm"`
	WeightKG       float64 `json:"weight_kg"`
	Age            int     `json:"age"`
	Sex            string  `json:"sex"`
	ActivityLevel  string  `json:"activity_level"`
	Goal           string  `json:"goal"`
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
}

// SettingsRequest updates analyzer settings. Nil fields are left unchanged.
type SettingsRequest struct {
	Provider   *string `json:"provider"`
	OpenAIKey  *string `json:"openai_key"`
	GeminiKey  *string `json:"gemini_key"`
	UnitSystem *string `json:"unit_system"`
	Onboarded  *bool   `json:"onboarded"`
}

// SettingsResponse never carries the keys themselves
type SettingsResponse struct {
	Provider     string `json:"provider"`
	HasOpenAIKey bool   `json:"has_openai_key"`
	HasGeminiKey bool   `json:"has_gemini_key"`
	UnitSystem   string `json:"unit_system"`
	Onboarded    bool   `json:"onboarded"`
}

// ConfirmAnalysisRequest saves a draft, optionally with user edits
type ConfirmAnalysisRequest struct {
	MealType string `json:"meal_type" binding:"required"`
	// Date defaults to today, YYYY-MM-DD
	Date string `json:"date"`
	// Foods replaces the drafted items when the user edited them
	Foods []FoodItem `json:"foods"`
}

// EntryRequest creates or updates a manual food entry
type EntryRequest struct {
	FoodName string  `json:"food_name" binding:"required"`
	Calories int     `json:"calories" binding:"gte=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" binding:"gte=0"`
	Portion  string  `json:"portion"`
	MealType string  `json:"meal_type" binding:"required"`
}
