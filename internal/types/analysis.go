package types

import "encoding/json"

// FoodItem is one food recognized in a photo
type FoodItem struct {
	Name       string  `json:"name"`
	Calories   int     `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Portion    string  `json:"portion"`
	Confidence float64 `json:"confidence"`
}

// FoodAnalysisResult is the normalized output of any vision provider
type FoodAnalysisResult struct {
	Foods         []FoodItem `json:"foods"`
	TotalCalories int        `json:"totalCalories"`
	Confidence    float64    `json:"confidence"`
	Notes         *string    `json:"notes,omitempty"`
}

// MarshalJSON writes a nil food list as [] so the output always decodes back
func (r FoodAnalysisResult) MarshalJSON() ([]byte, error) {
	type plain FoodAnalysisResult
	if r.Foods == nil {
		r.Foods = []FoodItem{}
	}
	return json.Marshal(plain(r))
}

// Macros holds summed macronutrients in grams
type Macros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// DailyStats is one day of aggregated intake
type DailyStats struct {
	Date     string  `json:"date"`
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// AnalysisDraft is an analysis result held until the user confirms it
type AnalysisDraft struct {
	ID       string             `json:"id"`
	Provider string             `json:"provider"`
	Result   FoodAnalysisResult `json:"result"`
	ImageRef *string            `json:"image_ref,omitempty"`
}
