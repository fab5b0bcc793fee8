package models

import "time"

// SettingsID is the primary key of the single settings row
const SettingsID uint = 1

// AnalyzerSettings stores the chosen vision provider and its credentials
type AnalyzerSettings struct {
	ID         uint      `gorm:"primarykey" json:"-"`
	Provider   string    `gorm:"size:20;not null;default:'gpt'" json:"provider"`
	OpenAIKey  string    `json:"-"`
	GeminiKey  string    `json:"-"`
	UnitSystem string    `gorm:"size:10;not null;default:'metric'" json:"unit_system"`
	Onboarded  bool      `gorm:"not null;default:false" json:"onboarded"`
	UpdatedAt  time.Time `json:"updated_at"`
}
