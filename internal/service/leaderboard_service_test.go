package service

import (
	"context"
	"testing"
	"time"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/lshigami/codeduel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLeaderboard(t *testing.T, db *gorm.DB, c *memCache, now time.Time) *leaderboardService {
	t.Helper()
	svc := NewLeaderboardService(repository.NewStatsRepository(db), c, testConfig()).(*leaderboardService)
	svc.now = func() time.Time { return now }
	return svc
}

func seedGlobal(t *testing.T, db *gorm.DB, won map[string]int) {
	t.Helper()
	for userID, w := range won {
		require.NoError(t, db.Create(&model.UserGlobalStats{
			UserID: userID, Username: "name-" + userID, ChallengesWon: w, TotalChallengesAttempted: w + 1,
			CodeGolfRating: 1000, TimeTrialRating: 1000, MemoryOptRating: 1000, DebuggingRating: 1000,
		}).Error)
	}
}

func TestGlobalRankSharesTies(t *testing.T) {
	db := testutil.NewDB(t)
	seedGlobal(t, db, map[string]int{"a": 10, "b": 7, "c": 7})
	svc := newLeaderboard(t, db, newMemCache(), time.Now())
	ctx := context.Background()

	for userID, want := range map[string]int{"a": 1, "b": 2, "c": 2} {
		r, err := svc.GlobalRank(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, r.Rank, userID)
		assert.Equal(t, want, *r.Rank, userID)
		require.NotNil(t, r.Stats)
		assert.Equal(t, "name-"+userID, r.Stats.Username)
	}

	none, err := svc.GlobalRank(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none.Rank)
	assert.Nil(t, none.Stats)
}

func TestLeaderboardGlobalEntriesAndCache(t *testing.T) {
	db := testutil.NewDB(t)
	seedGlobal(t, db, map[string]int{"a": 10, "b": 7, "c": 7})
	c := newMemCache()
	svc := newLeaderboard(t, db, c, time.Now())
	ctx := context.Background()

	board, err := svc.Leaderboard(ctx, "", "", "c")
	require.NoError(t, err)
	assert.Equal(t, LeaderboardGlobal, board.Type)
	assert.Equal(t, string(TimeFrameAll), board.TimeFrame)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, []int{1, 2, 2}, []int{board.Entries[0].Rank, board.Entries[1].Rank, board.Entries[2].Rank})
	assert.Equal(t, []string{"a", "b", "c"}, []string{board.Entries[0].UserID, board.Entries[1].UserID, board.Entries[2].UserID})
	require.NotNil(t, board.UserRank.Rank)
	assert.Equal(t, 2, *board.UserRank.Rank)

	_, ok, _ := c.Get(ctx, "leaderboard:global")
	assert.True(t, ok)

	// served from cache while the table changes underneath
	seedGlobal(t, db, map[string]int{"d": 20})
	cached, err := svc.Leaderboard(ctx, "global", "all", "")
	require.NoError(t, err)
	assert.Len(t, cached.Entries, 3)
	assert.Nil(t, cached.UserRank.Rank)

	svc.Invalidate(ctx)
	fresh, err := svc.Leaderboard(ctx, "global", "all", "")
	require.NoError(t, err)
	require.Len(t, fresh.Entries, 4)
	assert.Equal(t, "d", fresh.Entries[0].UserID)
}

func TestLeaderboardTypeScopedWindows(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	golf := testutil.SeedChallenge(t, db, "easy", model.CategoryCodeGolf)
	trial := testutil.SeedChallenge(t, db, "easy", model.CategoryTimeTrial)

	insert := func(userID, challengeID, winner string, age time.Duration) {
		a := &model.ChallengeAttempt{
			UserID: userID, ChallengeID: challengeID, LanguageID: pythonID,
			UserCode: "x", Winner: winner, CreatedAt: now.Add(-age),
		}
		require.NoError(t, db.Create(a).Error)
	}
	insert("a", golf.ID, model.WinnerUser, 20*24*time.Hour)
	insert("a", golf.ID, model.WinnerUser, 20*24*time.Hour)
	insert("b", golf.ID, model.WinnerUser, 2*24*time.Hour)
	insert("c", trial.ID, model.WinnerUser, time.Hour)

	svc := newLeaderboard(t, db, newMemCache(), now)
	ctx := context.Background()

	week, err := svc.Leaderboard(ctx, "code_golf", "week", "a")
	require.NoError(t, err)
	require.Len(t, week.Entries, 1)
	assert.Equal(t, "b", week.Entries[0].UserID)
	assert.Nil(t, week.UserRank.Rank)

	month, err := svc.Leaderboard(ctx, "code_golf", "month", "b")
	require.NoError(t, err)
	require.Len(t, month.Entries, 2)
	assert.Equal(t, "a", month.Entries[0].UserID)
	require.NotNil(t, month.UserRank.Rank)
	assert.Equal(t, 2, *month.UserRank.Rank)

	allTypesWeek, err := svc.TypeRank(ctx, "c", "", TimeFrameWeek)
	require.NoError(t, err)
	require.NotNil(t, allTypesWeek.Rank)
	assert.Equal(t, 1, *allTypesWeek.Rank)
}

func TestLeaderboardRejectsUnknownParams(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newLeaderboard(t, db, newMemCache(), time.Now())

	_, err := svc.Leaderboard(context.Background(), "speedrun", "all", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.Leaderboard(context.Background(), "code_golf", "year", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestWarmCacheStoresGlobalBoard(t *testing.T) {
	db := testutil.NewDB(t)
	seedGlobal(t, db, map[string]int{"a": 1})
	c := newMemCache()
	svc := newLeaderboard(t, db, c, time.Now())

	require.NoError(t, svc.WarmCache(context.Background()))
	raw, ok, _ := c.Get(context.Background(), "leaderboard:global")
	require.True(t, ok)
	assert.Contains(t, string(raw), `"userId":"a"`)
}

func TestParseTimeFrame(t *testing.T) {
	for in, want := range map[string]TimeFrame{"": TimeFrameAll, "ALL": TimeFrameAll, "week": TimeFrameWeek, " month ": TimeFrameMonth} {
		got, err := ParseTimeFrame(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 7*24*time.Hour, TimeFrameWeek.Window())
	assert.Equal(t, 30*24*time.Hour, TimeFrameMonth.Window())
	assert.Zero(t, TimeFrameAll.Window())
}

// invalidatingStats simulates an attempt being persisted while a board is read.
type invalidatingStats struct {
	repository.StatsRepository
	during func()
}

func (s *invalidatingStats) GlobalTop(ctx context.Context, limit int) ([]model.UserGlobalStats, error) {
	rows, err := s.StatsRepository.GlobalTop(ctx, limit)
	s.during()
	return rows, err
}

func TestLeaderboardSkipsStoreAfterConcurrentInvalidate(t *testing.T) {
	db := testutil.NewDB(t)
	seedGlobal(t, db, map[string]int{"a": 3})
	c := newMemCache()
	stats := &invalidatingStats{StatsRepository: repository.NewStatsRepository(db)}
	svc := NewLeaderboardService(stats, c, testConfig()).(*leaderboardService)
	ctx := context.Background()
	stats.during = func() { svc.Invalidate(ctx) }

	board, err := svc.Leaderboard(ctx, "global", "all", "")
	require.NoError(t, err)
	assert.Len(t, board.Entries, 1)
	_, ok, _ := c.Get(ctx, "leaderboard:global")
	assert.False(t, ok, "a board read before the invalidation must not be cached")

	stats.during = func() {}
	_, err = svc.Leaderboard(ctx, "global", "all", "")
	require.NoError(t, err)
	_, ok, _ = c.Get(ctx, "leaderboard:global")
	assert.True(t, ok)
}
