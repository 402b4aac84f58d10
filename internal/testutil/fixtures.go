package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// SeedChallenge stores an active challenge tagged with the given categories.
// It has one visible and one hidden test case.
func SeedChallenge(t *testing.T, db *gorm.DB, difficulty string, categories ...string) *model.Challenge {
	t.Helper()
	var types []model.ChallengeType
	if len(categories) > 0 {
		require.NoError(t, db.Where("name IN ?", categories).Find(&types).Error)
		require.Len(t, types, len(categories))
	}
	id := uuid.NewString()
	challenge := &model.Challenge{
		UUIDModel:      model.UUIDModel{ID: id},
		Slug:           "sum-two-numbers-" + id[:8],
		Title:          "Sum two numbers",
		Description:    "Read two integers and print their sum.",
		SampleInput:    "1 2",
		SampleOutput:   "3",
		TimeLimitMs:    2000,
		MemoryLimitKb:  128000,
		Difficulty:     difficulty,
		IsActive:       true,
		ChallengeTypes: types,
		TestCases: []model.ChallengeTestCase{
			{Input: "1 2", ExpectedOutput: "3", SortOrder: 1},
			{Input: "40 2", ExpectedOutput: "42", IsHidden: true, SortOrder: 2},
		},
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

// SeedJourney stores a published journey with n levels ordered 1..n.
func SeedJourney(t *testing.T, db *gorm.DB, slug string, n int) *model.Journey {
	t.Helper()
	journey := &model.Journey{Slug: slug, Title: "Journey " + slug, IsPublished: true}
	for i := 1; i <= n; i++ {
		journey.Levels = append(journey.Levels, model.Level{
			Order:          i,
			Title:          "Level",
			ExpectedOutput: "ok",
			Hints:          []string{"print ok"},
		})
	}
	require.NoError(t, db.Create(journey).Error)
	return journey
}
