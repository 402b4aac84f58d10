package dto

// SubmitAttemptRequest is the body of a challenge attempt.
type SubmitAttemptRequest struct {
	LanguageID int    `json:"languageId" binding:"required"`
	UserCode   string `json:"userCode" binding:"required"`
}

// CompleteLevelRequest is the body of a level completion.
type CompleteLevelRequest struct {
	SubmittedCode string `json:"submittedCode" binding:"required"`
}

// LeaderboardQuery holds the leaderboard query string.
type LeaderboardQuery struct {
	Type      string `form:"type"`
	TimeFrame string `form:"timeFrame"`
}
