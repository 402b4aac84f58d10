package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Journey struct {
	UUIDModel
	Slug        string         `json:"slug" gorm:"type:varchar(160);not null;uniqueIndex"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description" gorm:"type:text"`
	IsPublished bool           `json:"is_published" gorm:"not null"`
	Levels      []Level        `json:"levels,omitempty" gorm:"foreignKey:JourneyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Level struct {
	UUIDModel
	JourneyID      string                      `json:"journey_id" gorm:"type:varchar(36);not null;uniqueIndex:uq_level_order,priority:1"`
	Order          int                         `json:"order" gorm:"column:level_order;not null;uniqueIndex:uq_level_order,priority:2"`
	Title          string                      `json:"title" gorm:"not null"`
	Description    string                      `json:"description" gorm:"type:text"`
	StarterCode    string                      `json:"starter_code" gorm:"type:text"`
	ExpectedOutput string                      `json:"expected_output" gorm:"type:text"`
	Hints          datatypes.JSONSlice[string] `json:"hints"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

type JourneyProgress struct {
	ID                uint      `gorm:"primarykey" json:"-"`
	UserID            string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:uq_journey_progress,priority:1"`
	JourneyID         string    `json:"journey_id" gorm:"type:varchar(36);not null;uniqueIndex:uq_journey_progress,priority:2"`
	CurrentLevelOrder int       `json:"current_level_order" gorm:"not null;default:1"`
	IsCompleted       bool      `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type LevelProgress struct {
	ID                uint       `gorm:"primarykey" json:"-"`
	UserID            string     `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:uq_level_progress,priority:1"`
	LevelID           string     `json:"level_id" gorm:"type:varchar(36);not null;uniqueIndex:uq_level_progress,priority:2"`
	IsCompleted       bool       `json:"is_completed" gorm:"not null;default:false"`
	Attempts          int        `json:"attempts" gorm:"not null"`
	LastSubmittedCode string     `json:"last_submitted_code" gorm:"type:text"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
