package dto

import "time"

type LevelDTO struct {
	ID             string   `json:"id"`
	Order          int      `json:"order"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	StarterCode    string   `json:"starterCode"`
	ExpectedOutput string   `json:"expectedOutput"`
	Hints          []string `json:"hints"`
	Status         string   `json:"status"`
	IsCompleted    bool     `json:"isCompleted"`
}

type JourneyProgressDTO struct {
	JourneyID         string `json:"journeyId"`
	CurrentLevelOrder int    `json:"currentLevelOrder"`
	IsCompleted       bool   `json:"isCompleted"`
}

type JourneyDTO struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Levels      []LevelDTO          `json:"levels"`
	Progress    *JourneyProgressDTO `json:"progress"`
}

type JourneySummaryDTO struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LevelCount  int    `json:"levelCount"`
}

type LevelProgressDTO struct {
	LevelID           string     `json:"levelId"`
	IsCompleted       bool       `json:"isCompleted"`
	Attempts          int        `json:"attempts"`
	LastSubmittedCode string     `json:"lastSubmittedCode"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

type CompleteLevelResultDTO struct {
	LevelProgress   LevelProgressDTO   `json:"levelProgress"`
	JourneyProgress JourneyProgressDTO `json:"journeyProgress"`
}
