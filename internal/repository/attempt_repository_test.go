package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func newAttempt(userID, challengeID, winner string) *model.ChallengeAttempt {
	return &model.ChallengeAttempt{
		UserID:      userID,
		ChallengeID: challengeID,
		LanguageID:  71,
		UserCode:    "print(sum(map(int,input().split())))",
		AICode:      "print(3)",
		UserCorrect: winner != model.WinnerAI,
		AICorrect:   winner == model.WinnerAI,
		Winner:      winner,
	}
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func TestPersistCreatesAndIncrementsStats(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "easy", model.CategoryTimeTrial)
	ctx := context.Background()

	res, err := repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerUser),
		StatsUpdate{Username: "alice", RatingColumn: "time_trial_rating", RatingDelta: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, res.ChallengeStats.Attempts)
	assert.Equal(t, 1, res.ChallengeStats.Wins)
	assert.Equal(t, 1, res.GlobalStats.ChallengesWon)
	assert.Equal(t, 1010, res.GlobalStats.TimeTrialRating)
	assert.Equal(t, model.InitialRating, res.GlobalStats.CodeGolfRating)

	res, err = repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerAI),
		StatsUpdate{RatingColumn: "time_trial_rating", RatingDelta: -10})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ChallengeStats.Attempts)
	assert.Equal(t, 1, res.ChallengeStats.Wins)
	assert.Equal(t, 2, res.GlobalStats.TotalChallengesAttempted)
	assert.Equal(t, 1000, res.GlobalStats.TimeTrialRating)
	assert.Equal(t, "alice", res.GlobalStats.Username)

	res, err = repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerTie), StatsUpdate{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.GlobalStats.ChallengesTied)
	assert.Equal(t, int64(3), countRows(t, db, &model.ChallengeAttempt{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.UserChallengeStats{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.UserGlobalStats{}))
}

func TestPersistKeepsWinsBoundedByAttempts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "medium", model.CategoryCodeGolf)
	ctx := context.Background()

	winners := []string{model.WinnerUser, model.WinnerAI, model.WinnerUser, model.WinnerTie, model.WinnerUser, model.WinnerAI}
	for _, w := range winners {
		res, err := repo.Persist(ctx, newAttempt("u1", challenge.ID, w), StatsUpdate{})
		require.NoError(t, err)
		assert.LessOrEqual(t, res.ChallengeStats.Wins, res.ChallengeStats.Attempts)
		assert.LessOrEqual(t, res.GlobalStats.ChallengesWon, res.GlobalStats.TotalChallengesAttempted)
	}
}

func TestPersistClampsRatingAtZero(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "hard", model.CategoryDebugging)
	ctx := context.Background()

	_, err := repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerAI), StatsUpdate{RatingColumn: "debugging_rating", RatingDelta: -10})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.UserGlobalStats{}).Where("user_id = ?", "u1").Update("debugging_rating", 4).Error)

	res, err := repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerAI), StatsUpdate{RatingColumn: "debugging_rating", RatingDelta: -10})
	require.NoError(t, err)
	assert.Equal(t, 0, res.GlobalStats.DebuggingRating)
}

func TestPersistRollsBackWhenStatsUpsertFails(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "easy", model.CategoryTimeTrial)
	ctx := context.Background()

	_, err := repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerUser), StatsUpdate{})
	require.NoError(t, err)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_global_stats", func(tx *gorm.DB) {
		if tx.Statement.Table == "user_global_stats" {
			_ = tx.AddError(errors.New("injected failure"))
		}
	}))

	_, err = repo.Persist(ctx, newAttempt("u1", challenge.ID, model.WinnerUser), StatsUpdate{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrPersistenceFailure))

	assert.Equal(t, int64(1), countRows(t, db, &model.ChallengeAttempt{}))
	var stats model.UserChallengeStats
	require.NoError(t, db.Where("user_id = ?", "u1").First(&stats).Error)
	assert.Equal(t, 1, stats.Attempts)
}

func TestPersistRejectsUnknownRatingColumn(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "easy")

	_, err := repo.Persist(context.Background(), newAttempt("u1", challenge.ID, model.WinnerUser),
		StatsUpdate{RatingColumn: "wins; DROP TABLE users", RatingDelta: 10})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
	assert.Equal(t, int64(0), countRows(t, db, &model.ChallengeAttempt{}))
}

func TestRecentForUserNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "easy")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		a := newAttempt("u1", challenge.ID, model.WinnerUser)
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(a).Error)
	}
	other := newAttempt("u2", challenge.ID, model.WinnerUser)
	require.NoError(t, db.Create(other).Error)

	recent, err := repo.RecentForUser(context.Background(), "u1", challenge.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	for i := 1; i < len(recent); i++ {
		assert.True(t, recent[i-1].CreatedAt.After(recent[i].CreatedAt))
	}
	for _, a := range recent {
		assert.Equal(t, "u1", a.UserID)
	}
}

func TestPersistConcurrentSubmissionsFromOneUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAttemptRepository(db)
	challenge := testutil.SeedChallenge(t, db, "easy", model.CategoryCodeGolf)

	const n = 12
	winners := []string{model.WinnerUser, model.WinnerAI, model.WinnerTie}
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		winner := winners[i%len(winners)]
		g.Go(func() error {
			_, err := repo.Persist(ctx, newAttempt("u1", challenge.ID, winner),
				StatsUpdate{Username: "alice", RatingColumn: "code_golf_rating", RatingDelta: 0})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(n), countRows(t, db, &model.ChallengeAttempt{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.UserChallengeStats{}))
	assert.Equal(t, int64(1), countRows(t, db, &model.UserGlobalStats{}))

	var cs model.UserChallengeStats
	require.NoError(t, db.Where("user_id = ? AND challenge_id = ?", "u1", challenge.ID).First(&cs).Error)
	var gs model.UserGlobalStats
	require.NoError(t, db.Where("user_id = ?", "u1").First(&gs).Error)

	assert.Equal(t, n, cs.Attempts)
	assert.Equal(t, n, gs.TotalChallengesAttempted)
	assert.Equal(t, n/len(winners), cs.Wins)
	assert.Equal(t, cs.Wins, gs.ChallengesWon)
	assert.Equal(t, n/len(winners), gs.ChallengesTied)
	assert.LessOrEqual(t, cs.Wins, cs.Attempts)
}
