package models

import (
	"time"

	"gorm.io/gorm"
)

// DateLayout is the format of FoodEntry.Date
const DateLayout = "2006-01-02"

type FoodEntry struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProfileID     uint      `gorm:"not null;index" json:"profile_id"`
	Profile       *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FoodName      string    `gorm:"not null" json:"food_name"`
	Calories      int       `gorm:"not null" json:"calories"`
	Protein       float64   `gorm:"not null" json:"protein"`
	Carbs         float64   `gorm:"not null" json:"carbs"`
	Fat           float64   `gorm:"not null" json:"fat"`
	Portion       string    `json:"portion"`
	MealType      string    `gorm:"size:20;not null" json:"meal_type"`
	ImageRef      *string   `json:"image_ref,omitempty"`
	Date          string    `gorm:"size:10;not null;index" json:"date"`
	LoggedAt      time.Time `gorm:"not null;index" json:"logged_at"`
	IsManualEntry bool      `gorm:"not null;default:false" json:"is_manual_entry"`
	AIConfidence  *float64  `json:"ai_confidence,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate derives Date from LoggedAt when unset
func (e *FoodEntry) BeforeCreate(tx *gorm.DB) error {
	if e.LoggedAt.IsZero() {
		e.LoggedAt = time.Now()
	}
	if e.Date == "" {
		e.Date = e.LoggedAt.Format(DateLayout)
	}
	return nil
}
