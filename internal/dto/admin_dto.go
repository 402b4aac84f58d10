package dto

import "time"

// TestCaseCreateDTO is used within ChallengeCreateDTO.
type TestCaseCreateDTO struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput" binding:"required"`
	IsHidden       bool   `json:"isHidden"`
}

// ChallengeCreateDTO is for admins creating a challenge with all its test cases.
type ChallengeCreateDTO struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description" binding:"required"`
	StarterCode   string              `json:"starterCode"`
	SolutionCode  string              `json:"solutionCode"`
	SampleInput   string              `json:"sampleInput"`
	SampleOutput  string              `json:"sampleOutput"`
	TimeLimitMs   int                 `json:"timeLimitMs" binding:"omitempty,min=100,max=20000"`
	MemoryLimitKb int                 `json:"memoryLimitKb" binding:"omitempty,min=2048,max=512000"`
	Difficulty    string              `json:"difficulty"`
	IsActive      *bool               `json:"isActive"`
	Types         []string            `json:"types" binding:"required,min=1,dive,oneof=code_golf time_trial memory_optimization debugging"`
	TestCases     []TestCaseCreateDTO `json:"testCases" binding:"required,min=1,dive"`
}

// LevelCreateDTO is used within JourneyCreateDTO.
type LevelCreateDTO struct {
	Order          int      `json:"order" binding:"required,min=1"`
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description"`
	StarterCode    string   `json:"starterCode"`
	ExpectedOutput string   `json:"expectedOutput"`
	Hints          []string `json:"hints"`
}

// JourneyCreateDTO is for admins creating a journey with its ordered levels.
type JourneyCreateDTO struct {
	Title       string           `json:"title" binding:"required"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	IsPublished *bool            `json:"isPublished"`
	Levels      []LevelCreateDTO `json:"levels" binding:"required,min=1,dive"`
}

type AdminTestCaseDTO struct {
	ID             uint   `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	IsHidden       bool   `json:"isHidden"`
	SortOrder      int    `json:"sortOrder"`
}

// AdminChallengeDTO is the admin view of a challenge, hidden cases included.
type AdminChallengeDTO struct {
	ID         string             `json:"id"`
	Slug       string             `json:"slug"`
	Title      string             `json:"title"`
	Difficulty string             `json:"difficulty"`
	IsActive   bool               `json:"isActive"`
	Types      []string           `json:"types"`
	TestCases  []AdminTestCaseDTO `json:"testCases"`
	CreatedAt  time.Time          `json:"createdAt"`
}
