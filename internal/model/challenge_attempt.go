package model

import "time"

const (
	WinnerUser = "user"
	WinnerAI   = "ai"
	WinnerTie  = "tie"
)

// AIGenerationFailedCode is stored in AICode when no AI solution could be produced.
const AIGenerationFailedCode = "// AI_GENERATION_FAILED"

// ChallengeAttempt is append-only: rows are inserted once and never updated.
type ChallengeAttempt struct {
	UUIDModel
	UserID             string    `json:"user_id" gorm:"type:varchar(64);not null;index:idx_attempt_user_challenge,priority:1"`
	ChallengeID        string    `json:"challenge_id" gorm:"type:varchar(36);not null;index:idx_attempt_user_challenge,priority:2;index"`
	Challenge          Challenge `json:"-" gorm:"foreignKey:ChallengeID"`
	LanguageID         int       `json:"language_id" gorm:"not null"`
	UserCode           string    `json:"user_code" gorm:"type:text;not null"`
	AICode             string    `json:"ai_code" gorm:"type:text"`
	AIGenerationFailed bool      `json:"ai_generation_failed" gorm:"not null;default:false"`
	UserCorrect        bool      `json:"user_correct" gorm:"not null"`
	AICorrect          bool      `json:"ai_correct" gorm:"not null"`
	UserTimeSec        float64   `json:"user_time_sec"`
	AITimeSec          float64   `json:"ai_time_sec"`
	UserMemoryKb       int       `json:"user_memory_kb"`
	AIMemoryKb         int       `json:"ai_memory_kb"`
	Winner             string    `json:"winner" gorm:"type:varchar(8);not null;index"`
	CreatedAt          time.Time `json:"created_at" gorm:"index:idx_attempt_user_challenge,priority:3;index"`
}
