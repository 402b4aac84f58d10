package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalRankCountsStrictlyGreater(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()

	for userID, won := range map[string]int{"u10": 10, "u7a": 7, "u7b": 7} {
		require.NoError(t, db.Create(&model.UserGlobalStats{
			UserID: userID, ChallengesWon: won, TotalChallengesAttempted: won + 2,
			CodeGolfRating: 1000, TimeTrialRating: 1000, MemoryOptRating: 1000, DebuggingRating: 1000,
		}).Error)
	}

	ahead, err := repo.CountGlobalAhead(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ahead)

	ahead, err = repo.CountGlobalAhead(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ahead)

	top, err := repo.GlobalTop(ctx, 50)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"u10", "u7a", "u7b"}, []string{top[0].UserID, top[1].UserID, top[2].UserID})

	missing, err := repo.GlobalStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTypeScopedAggregatesWithinWindow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()
	golf := testutil.SeedChallenge(t, db, "easy", model.CategoryCodeGolf)
	trial := testutil.SeedChallenge(t, db, "easy", model.CategoryTimeTrial)

	now := time.Now().UTC()
	insert := func(userID, challengeID, winner string, age time.Duration) {
		a := newAttempt(userID, challengeID, winner)
		a.CreatedAt = now.Add(-age)
		require.NoError(t, db.Create(a).Error)
	}
	insert("alice", golf.ID, model.WinnerUser, time.Hour)
	insert("alice", golf.ID, model.WinnerUser, 10*24*time.Hour)
	insert("alice", golf.ID, model.WinnerAI, 2*time.Hour)
	insert("bob", golf.ID, model.WinnerUser, 3*time.Hour)
	insert("bob", trial.ID, model.WinnerUser, time.Hour)
	insert("bob", trial.ID, model.WinnerUser, time.Hour)

	all, err := repo.TypeScopedStats(ctx, model.CategoryCodeGolf, nil, "alice")
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Equal(t, 2, all.Wins)
	assert.Equal(t, 3, all.Attempts)

	week, err := repo.TypeScopedStats(ctx, model.CategoryCodeGolf, SinceWindow(now, 7*24*time.Hour), "alice")
	require.NoError(t, err)
	require.NotNil(t, week)
	assert.Equal(t, 1, week.Wins)
	assert.Equal(t, 2, week.Attempts)

	ahead, err := repo.CountTypeScopedAhead(ctx, model.CategoryCodeGolf, SinceWindow(now, 7*24*time.Hour), week.Wins)
	require.NoError(t, err)
	assert.Equal(t, int64(0), ahead)

	top, err := repo.TypeScopedTop(ctx, model.CategoryCodeGolf, SinceWindow(now, 7*24*time.Hour), 50)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].UserID)
	assert.Equal(t, "bob", top[1].UserID)

	none, err := repo.TypeScopedStats(ctx, model.CategoryMemoryOptimization, nil, "alice")
	require.NoError(t, err)
	assert.Nil(t, none)

	// no type: every challenge counts
	bobAll, err := repo.TypeScopedStats(ctx, "", SinceWindow(now, 7*24*time.Hour), "bob")
	require.NoError(t, err)
	require.NotNil(t, bobAll)
	assert.Equal(t, 3, bobAll.Wins)
	assert.Equal(t, 3, bobAll.Attempts)
}

func TestChallengeTopOrdersByWins(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()
	challenge := testutil.SeedChallenge(t, db, "easy")

	for userID, wins := range map[string]int{"a": 1, "b": 3, "c": 3} {
		require.NoError(t, db.Create(&model.UserChallengeStats{UserID: userID, ChallengeID: challenge.ID, Attempts: 5, Wins: wins}).Error)
	}
	top, err := repo.ChallengeTop(ctx, challenge.ID, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "b", top[0].UserID)
	assert.Equal(t, "c", top[1].UserID)
	assert.Equal(t, "a", top[2].UserID)

	ahead, err := repo.CountChallengeAhead(ctx, challenge.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ahead)
}

func TestSinceWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Nil(t, SinceWindow(now, 0))
	got := SinceWindow(now, 7*24*time.Hour)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), *got)
}
