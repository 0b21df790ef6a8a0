// internal/models/models.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Risk labels produced by the classification rule.
const (
	RiskHigh   = "High"
	RiskMedium = "Medium"
	RiskLow    = "Low"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:hashed_password;not null" json:"-"`
	AuthToken *string   `gorm:"uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Predictions []PredictionHistory `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

type PredictionHistory struct {
	ID     uint `gorm:"primarykey" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`

	CropType  string `gorm:"not null" json:"crop_type"`
	CropStage string `gorm:"not null" json:"crop_stage"`

	State    string `gorm:"not null" json:"state"`
	District string `gorm:"not null" json:"district"`
	City     string `gorm:"not null" json:"city"`
	Village  string `gorm:"not null" json:"village"`

	Temperature  float64 `gorm:"not null" json:"temperature"`
	Humidity     float64 `gorm:"not null" json:"humidity"`
	Rainfall     float64 `gorm:"not null" json:"rainfall"`
	WindSpeed    float64 `gorm:"not null" json:"wind_speed"`
	SoilMoisture float64 `gorm:"not null" json:"soil_moisture"`

	PredictionResult string  `gorm:"not null" json:"prediction_result"` // High, Medium, Low
	ConfidenceScore  float64 `gorm:"not null" json:"confidence_score"`

	PredictionDate datatypes.Date `gorm:"not null" json:"prediction_date"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
}

func (PredictionHistory) TableName() string { return "prediction_history" }
