package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ChallengeSummaryDTO struct {
	ID         string   `json:"id"`
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Difficulty string   `json:"difficulty"`
	Types      []string `json:"types"`
}

// TestCaseDTO never carries hidden cases.
type TestCaseDTO struct {
	ID             uint   `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	SortOrder      int    `json:"sortOrder"`
}

type ChallengeDTO struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	StarterCode   string        `json:"starterCode"`
	SampleInput   string        `json:"sampleInput"`
	SampleOutput  string        `json:"sampleOutput"`
	TimeLimitMs   int           `json:"timeLimitMs"`
	MemoryLimitKb int           `json:"memoryLimitKb"`
	Difficulty    string        `json:"difficulty"`
	Types         []string      `json:"types"`
	TestCases     []TestCaseDTO `json:"testCases"`
}

type AttemptDTO struct {
	ID                 string    `json:"id"`
	ChallengeID        string    `json:"challengeId"`
	LanguageID         int       `json:"languageId"`
	UserCode           string    `json:"userCode"`
	AICode             string    `json:"aiCode"`
	AIGenerationFailed bool      `json:"aiGenerationFailed"`
	UserCorrect        bool      `json:"userCorrect"`
	AICorrect          bool      `json:"aiCorrect"`
	UserTimeSec        float64   `json:"userTimeSec"`
	AITimeSec          float64   `json:"aiTimeSec"`
	UserMemoryKb       int       `json:"userMemoryKb"`
	AIMemoryKb         int       `json:"aiMemoryKb"`
	Winner             string    `json:"winner"`
	CreatedAt          time.Time `json:"createdAt"`
}

type ChallengeStatsDTO struct {
	Attempts int `json:"attempts"`
	Wins     int `json:"wins"`
}

type GlobalStatsDTO struct {
	ChallengesWon            int `json:"challengesWon"`
	TotalChallengesAttempted int `json:"totalChallengesAttempted"`
	ChallengesTied           int `json:"challengesTied"`
	CodeGolfRating           int `json:"codeGolfRating"`
	TimeTrialRating          int `json:"timeTrialRating"`
	MemoryOptRating          int `json:"memoryOptRating"`
	DebuggingRating          int `json:"debuggingRating"`
}

type LeaderboardEntryDTO struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Attempts int    `json:"attempts"`
}

type ChallengeDetailDTO struct {
	Challenge      ChallengeDTO          `json:"challenge"`
	RecentAttempts []AttemptDTO          `json:"recentAttempts"`
	UserStats      *ChallengeStatsDTO    `json:"userStats"`
	Leaderboard    []LeaderboardEntryDTO `json:"leaderboard"`
}

// ExecutionSummaryDTO is one side's aggregate sandbox result.
type ExecutionSummaryDTO struct {
	Correct     bool    `json:"correct"`
	TimeSec     float64 `json:"timeSec"`
	MemoryKb    int     `json:"memoryKb"`
	PassedCases int     `json:"passedCases"`
	TotalCases  int     `json:"totalCases"`
}

type AttemptResultDTO struct {
	Attempt            AttemptDTO          `json:"attempt"`
	Winner             string              `json:"winner"`
	UserStats          ChallengeStatsDTO   `json:"userStats"`
	GlobalStats        GlobalStatsDTO      `json:"globalStats"`
	AICode             *string             `json:"aiCode,omitempty"`
	AIGenerationFailed bool                `json:"aiGenerationFailed"`
	AIFailureReason    string              `json:"aiFailureReason,omitempty"`
	UserResult         ExecutionSummaryDTO `json:"userResult"`
	AIResult           ExecutionSummaryDTO `json:"aiResult"`
}

type RankStatsDTO struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Attempts int    `json:"attempts"`
}

// UserRankDTO has a null rank and null stats for users with nothing in scope.
type UserRankDTO struct {
	Rank  *int          `json:"rank"`
	Stats *RankStatsDTO `json:"stats"`
}

type LeaderboardDTO struct {
	Type      string                `json:"type"`
	TimeFrame string                `json:"timeFrame"`
	Entries   []LeaderboardEntryDTO `json:"entries"`
	UserRank  UserRankDTO           `json:"userRank"`
}
