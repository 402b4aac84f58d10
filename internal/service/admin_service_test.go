package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/lshigami/codeduel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmin(t *testing.T) (AdminService, repository.ChallengeRepository, repository.JourneyRepository) {
	t.Helper()
	db := testutil.NewDB(t)
	challenges := repository.NewChallengeRepository(db)
	journeys := repository.NewJourneyRepository(db)
	return NewAdminService(challenges, journeys), challenges, journeys
}

func challengeRequest(title string) dto.ChallengeCreateDTO {
	return dto.ChallengeCreateDTO{
		Title:       title,
		Description: "Reverse the input line.",
		Difficulty:  "Easy",
		Types:       []string{"code_golf", "Code_Golf"},
		TestCases: []dto.TestCaseCreateDTO{
			{Input: "abc", ExpectedOutput: "cba"},
			{Input: "racecar", ExpectedOutput: "racecar", IsHidden: true},
		},
	}
}

func TestCreateChallengeDefaultsAndSlug(t *testing.T) {
	svc, challenges, _ := newAdmin(t)
	ctx := context.Background()

	created, err := svc.CreateChallenge(ctx, challengeRequest("Reverse a String!"))
	require.NoError(t, err)
	assert.Equal(t, "reverse-a-string", created.Slug)
	assert.True(t, created.IsActive)
	assert.Equal(t, []string{model.CategoryCodeGolf}, created.Types)
	require.Len(t, created.TestCases, 2)
	assert.Equal(t, []int{1, 2}, []int{created.TestCases[0].SortOrder, created.TestCases[1].SortOrder})
	assert.True(t, created.TestCases[1].IsHidden)

	stored, err := challenges.FindActiveByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2000, stored.TimeLimitMs)
	assert.Equal(t, 128000, stored.MemoryLimitKb)

	dup, err := svc.CreateChallenge(ctx, challengeRequest("Reverse a String!"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dup.Slug, "reverse-a-string-"))
	assert.NotEqual(t, created.ID, dup.ID)
}

func TestCreateChallengeInactive(t *testing.T) {
	svc, challenges, _ := newAdmin(t)
	req := challengeRequest("Hidden gem")
	inactive := false
	req.IsActive = &inactive

	created, err := svc.CreateChallenge(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, created.IsActive)
	_, err = challenges.FindActiveByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestCreateChallengeRejectsUnknownType(t *testing.T) {
	svc, _, _ := newAdmin(t)
	req := challengeRequest("Bad type")
	req.Types = []string{"speedrun"}
	_, err := svc.CreateChallenge(context.Background(), req)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreateJourney(t *testing.T) {
	svc, _, journeys := newAdmin(t)
	ctx := context.Background()
	req := dto.JourneyCreateDTO{
		Title: "Python Basics",
		Levels: []dto.LevelCreateDTO{
			{Order: 2, Title: "Loops", ExpectedOutput: "1\n2"},
			{Order: 1, Title: "Hello", ExpectedOutput: "hello", Hints: []string{"use print"}},
		},
	}

	created, err := svc.CreateJourney(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "python-basics", created.Slug)
	assert.Equal(t, 2, created.LevelCount)

	stored, err := journeys.FindBySlug(ctx, "python-basics")
	require.NoError(t, err)
	require.Len(t, stored.Levels, 2)
	assert.Equal(t, "Hello", stored.Levels[0].Title)
	assert.Equal(t, []string{"use print"}, []string(stored.Levels[0].Hints))

	again, err := svc.CreateJourney(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, created.Slug, again.Slug)

	req.Slug = "python-basics"
	_, err = svc.CreateJourney(ctx, req)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	req.Slug = ""
	req.Levels = append(req.Levels, dto.LevelCreateDTO{Order: 1, Title: "Dup"})
	_, err = svc.CreateJourney(ctx, req)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
