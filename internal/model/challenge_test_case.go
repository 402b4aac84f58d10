package model

import "time"

type ChallengeTestCase struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ChallengeID    string    `json:"challenge_id" gorm:"type:varchar(36);not null;index"`
	Input          string    `json:"input" gorm:"type:text"`
	ExpectedOutput string    `json:"expected_output" gorm:"type:text;not null"`
	IsHidden       bool      `json:"is_hidden" gorm:"not null;default:false"`
	SortOrder      int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
}
