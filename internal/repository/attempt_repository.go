package repository

import (
	"context"
	"fmt"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsUpdate carries the aggregate side of a persisted attempt.
type StatsUpdate struct {
	Username     string
	RatingColumn string // one of model.RatingColumns, empty for no rating change
	RatingDelta  int
}

type PersistResult struct {
	ChallengeStats model.UserChallengeStats
	GlobalStats    model.UserGlobalStats
}

type AttemptRepository interface {
	Persist(ctx context.Context, attempt *model.ChallengeAttempt, update StatsUpdate) (*PersistResult, error)
	RecentForUser(ctx context.Context, userID, challengeID string, limit int) ([]model.ChallengeAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// Persist inserts the attempt and upserts both stats rows atomically.
// Any failure rolls back all three writes.
func (r *attemptRepository) Persist(ctx context.Context, attempt *model.ChallengeAttempt, update StatsUpdate) (*PersistResult, error) {
	if update.RatingColumn != "" && !isRatingColumn(update.RatingColumn) {
		return nil, fmt.Errorf("unknown rating column %q: %w", update.RatingColumn, apperror.ErrValidation)
	}

	wins, ties := 0, 0
	switch attempt.Winner {
	case model.WinnerUser:
		wins = 1
	case model.WinnerTie:
		ties = 1
	}

	var result PersistResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(attempt).Error; err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		now := tx.NowFunc()

		challengeStats := model.UserChallengeStats{
			UserID:      attempt.UserID,
			ChallengeID: attempt.ChallengeID,
			Username:    update.Username,
			Attempts:    1,
			Wins:        wins,
		}
		challengeSet := map[string]interface{}{
			"attempts":   gorm.Expr("user_challenge_stats.attempts + ?", 1),
			"wins":       gorm.Expr("user_challenge_stats.wins + ?", wins),
			"updated_at": now,
		}
		if update.Username != "" {
			challengeSet["username"] = update.Username
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
			DoUpdates: clause.Assignments(challengeSet),
		}).Create(&challengeStats).Error; err != nil {
			return fmt.Errorf("upsert challenge stats: %w", err)
		}

		globalStats := model.UserGlobalStats{
			UserID:                   attempt.UserID,
			Username:                 update.Username,
			ChallengesWon:            wins,
			TotalChallengesAttempted: 1,
			ChallengesTied:           ties,
			CodeGolfRating:           model.InitialRating,
			TimeTrialRating:          model.InitialRating,
			MemoryOptRating:          model.InitialRating,
			DebuggingRating:          model.InitialRating,
		}
		globalSet := map[string]interface{}{
			"challenges_won":             gorm.Expr("user_global_stats.challenges_won + ?", wins),
			"total_challenges_attempted": gorm.Expr("user_global_stats.total_challenges_attempted + ?", 1),
			"challenges_tied":            gorm.Expr("user_global_stats.challenges_tied + ?", ties),
			"updated_at":                 now,
		}
		if update.Username != "" {
			globalSet["username"] = update.Username
		}
		if update.RatingColumn != "" && update.RatingDelta != 0 {
			setInitialRating(&globalStats, update.RatingColumn, clampRating(model.InitialRating+update.RatingDelta))
			col := "user_global_stats." + update.RatingColumn
			globalSet[update.RatingColumn] = gorm.Expr(
				"CASE WHEN "+col+" + ? < 0 THEN 0 ELSE "+col+" + ? END",
				update.RatingDelta, update.RatingDelta,
			)
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(globalSet),
		}).Create(&globalStats).Error; err != nil {
			return fmt.Errorf("upsert global stats: %w", err)
		}

		if err := tx.Where("user_id = ? AND challenge_id = ?", attempt.UserID, attempt.ChallengeID).
			First(&result.ChallengeStats).Error; err != nil {
			return fmt.Errorf("reload challenge stats: %w", err)
		}
		if err := tx.Where("user_id = ?", attempt.UserID).First(&result.GlobalStats).Error; err != nil {
			return fmt.Errorf("reload global stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrPersistenceFailure, err)
	}
	return &result, nil
}

func (r *attemptRepository) RecentForUser(ctx context.Context, userID, challengeID string, limit int) ([]model.ChallengeAttempt, error) {
	var attempts []model.ChallengeAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func isRatingColumn(col string) bool {
	for _, c := range model.RatingColumns {
		if c == col {
			return true
		}
	}
	return false
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	return r
}

func setInitialRating(s *model.UserGlobalStats, column string, value int) {
	switch column {
	case "code_golf_rating":
		s.CodeGolfRating = value
	case "time_trial_rating":
		s.TimeTrialRating = value
	case "memory_opt_rating":
		s.MemoryOptRating = value
	case "debugging_rating":
		s.DebuggingRating = value
	}
}
