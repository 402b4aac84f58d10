package model

import "time"

const InitialRating = 1000

type UserChallengeStats struct {
	ID          uint      `gorm:"primarykey" json:"-"`
	UserID      string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex:uq_user_challenge_stats,priority:1"`
	ChallengeID string    `json:"challenge_id" gorm:"type:varchar(36);not null;uniqueIndex:uq_user_challenge_stats,priority:2;index"`
	Username    string    `json:"username" gorm:"type:varchar(64)"`
	Attempts    int       `json:"attempts" gorm:"not null"`
	Wins        int       `json:"wins" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserGlobalStats struct {
	ID                       uint      `gorm:"primarykey" json:"-"`
	UserID                   string    `json:"user_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Username                 string    `json:"username" gorm:"type:varchar(64)"`
	ChallengesWon            int       `json:"challenges_won" gorm:"not null;index"`
	TotalChallengesAttempted int       `json:"total_challenges_attempted" gorm:"not null"`
	ChallengesTied           int       `json:"challenges_tied" gorm:"not null"`
	CodeGolfRating           int       `json:"code_golf_rating" gorm:"not null;default:1000"`
	TimeTrialRating          int       `json:"time_trial_rating" gorm:"not null;default:1000"`
	MemoryOptRating          int       `json:"memory_opt_rating" gorm:"not null;default:1000"`
	DebuggingRating          int       `json:"debugging_rating" gorm:"not null;default:1000"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// RatingColumns maps a challenge category to its rating column.
var RatingColumns = map[string]string{
	CategoryCodeGolf:           "code_golf_rating",
	CategoryTimeTrial:          "time_trial_rating",
	CategoryMemoryOptimization: "memory_opt_rating",
	CategoryDebugging:          "debugging_rating",
}
