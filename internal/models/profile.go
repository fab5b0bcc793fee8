package models

import (
	"time"
)

// ActiveProfileID is the primary key of the single user profile
const ActiveProfileID uint = 1

type Profile struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:100" json:"name"`
	HeightCM      float64   `gorm:"not null" json:"height_cm"`
	WeightKG      float64   `gorm:"not null" json:"weight_kg"`
	Age           int       `gorm:"not null" json:"age"`
	Sex           string    `gorm:"size:10;not null" json:"sex"`
	ActivityLevel string    `gorm:"size:20;not null" json:"activity_level"`
	Goal          string    `gorm:"size:20;not null" json:"goal"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
