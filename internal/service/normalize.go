package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pageza/snapcal/backend/internal/types"
)

// StripCodeFences removes Markdown fence markers and surrounding whitespace
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// wholeNumber accepts 350 and 350.0 but rejects 350.5
type wholeNumber int

func (n *wholeNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected integer, got %s", data)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("integer out of range: %s", data)
	}
	*n = wholeNumber(f)
	return nil
}

type itemPayload struct {
	Name       *string      `json:"name"`
	Calories   *wholeNumber `json:"calories"`
	Protein    *float64     `json:"protein"`
	Carbs      *float64     `json:"carbs"`
	Fat        *float64     `json:"fat"`
	Portion    *string      `json:"portion"`
	Confidence *float64     `json:"confidence"`
}

type resultPayload struct {
	Foods         *[]itemPayload `json:"foods"`
	TotalCalories *wholeNumber   `json:"totalCalories"`
	Confidence    *float64       `json:"confidence"`
	Notes         *string        `json:"notes"`
}

// NormalizeResponse turns provider text into a FoodAnalysisResult.
// Fences are always stripped before decoding. Unknown fields are ignored,
// missing required fields and wrong types fail with MalformedResponse.
func NormalizeResponse(p Provider, raw string) (*types.FoodAnalysisResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, newAnalysisError(KindEmptyResponse, p, nil)
	}

	result, err := decodeResult(StripCodeFences(raw))
	if err != nil {
		return nil, &AnalysisError{Kind: KindMalformedResponse, Provider: p, Raw: raw, Err: err}
	}
	return result, nil
}

func decodeResult(text string) (*types.FoodAnalysisResult, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var payload resultPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	switch {
	case payload.Foods == nil:
		return nil, errors.New("missing field foods")
	case payload.TotalCalories == nil:
		return nil, errors.New("missing field totalCalories")
	case payload.Confidence == nil:
		return nil, errors.New("missing field confidence")
	}

	result := &types.FoodAnalysisResult{
		Foods:         make([]types.FoodItem, 0, len(*payload.Foods)),
		TotalCalories: int(*payload.TotalCalories),
		Confidence:    *payload.Confidence,
		Notes:         payload.Notes,
	}
	for i, item := range *payload.Foods {
		food, err := item.toFoodItem()
		if err != nil {
			return nil, fmt.Errorf("foods[%d]: %w", i, err)
		}
		result.Foods = append(result.Foods, food)
	}
	return result, nil
}

func (p itemPayload) toFoodItem() (types.FoodItem, error) {
	switch {
	case p.Name == nil:
		return types.FoodItem{}, errors.New("missing field name")
	case p.Calories == nil:
		return types.FoodItem{}, errors.New("missing field calories")
	case p.Protein == nil:
		return types.FoodItem{}, errors.New("missing field protein")
	case p.Carbs == nil:
		return types.FoodItem{}, errors.New("missing field carbs")
	case p.Fat == nil:
		return types.FoodItem{}, errors.New("missing field fat")
	case p.Portion == nil:
		return types.FoodItem{}, errors.New("missing field portion")
	case p.Confidence == nil:
		return types.FoodItem{}, errors.New("missing field confidence")
	}
	return types.FoodItem{
		Name:       *p.Name,
		Calories:   int(*p.Calories),
		Protein:    *p.Protein,
		Carbs:      *p.Carbs,
		Fat:        *p.Fat,
		Portion:    *p.Portion,
		Confidence: *p.Confidence,
	}, nil
}
