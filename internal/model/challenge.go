package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	CategoryCodeGolf           = "code_golf"
	CategoryTimeTrial          = "time_trial"
	CategoryMemoryOptimization = "memory_optimization"
	CategoryDebugging          = "debugging"
)

// ChallengeCategories is ordered by judging precedence: when a challenge
// carries several tags, the first one found here picks the primary metric.
var ChallengeCategories = []string{
	CategoryCodeGolf,
	CategoryTimeTrial,
	CategoryMemoryOptimization,
	CategoryDebugging,
}

func IsChallengeCategory(name string) bool {
	for _, c := range ChallengeCategories {
		if c == name {
			return true
		}
	}
	return false
}

type ChallengeType struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(32);not null;uniqueIndex" json:"name"`
}

type Challenge struct {
	UUIDModel
	Slug           string              `json:"slug" gorm:"type:varchar(160);not null;uniqueIndex"`
	Title          string              `json:"title" gorm:"not null"`
	Description    string              `json:"description" gorm:"type:text;not null"`
	StarterCode    string              `json:"starter_code" gorm:"type:text"`
	SolutionCode   string              `json:"-" gorm:"type:text"`
	SampleInput    string              `json:"sample_input" gorm:"type:text"`
	SampleOutput   string              `json:"sample_output" gorm:"type:text"`
	TimeLimitMs    int                 `json:"time_limit_ms" gorm:"not null;default:2000"`
	MemoryLimitKb  int                 `json:"memory_limit_kb" gorm:"not null;default:128000"`
	Difficulty     string              `json:"difficulty" gorm:"type:varchar(32)"`
	IsActive       bool                `json:"is_active" gorm:"not null;index"`
	ChallengeTypes []ChallengeType     `json:"challenge_types,omitempty" gorm:"many2many:challenge_type_links;"`
	TestCases      []ChallengeTestCase `json:"test_cases,omitempty" gorm:"foreignKey:ChallengeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`
}

// PrimaryCategory returns the tag that decides the comparison metric,
// or "" when the challenge has no known tag.
func (c *Challenge) PrimaryCategory() string {
	for _, category := range ChallengeCategories {
		for _, ct := range c.ChallengeTypes {
			if ct.Name == category {
				return category
			}
		}
	}
	return ""
}

func (c *Challenge) TypeNames() []string {
	names := make([]string, 0, len(c.ChallengeTypes))
	for _, ct := range c.ChallengeTypes {
		names = append(names, ct.Name)
	}
	return names
}

// VisibleTestCases drops hidden cases; only these may leave the server.
func (c *Challenge) VisibleTestCases() []ChallengeTestCase {
	visible := make([]ChallengeTestCase, 0, len(c.TestCases))
	for _, tc := range c.TestCases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}
	return visible
}
