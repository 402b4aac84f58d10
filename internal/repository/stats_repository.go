package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/codeduel/internal/model"
	"gorm.io/gorm"
)

// TypeScopedRow is one user's aggregate over attempts on challenges of a type.
type TypeScopedRow struct {
	UserID   string
	Username string
	Wins     int
	Attempts int
}

type StatsRepository interface {
	ChallengeStats(ctx context.Context, userID, challengeID string) (*model.UserChallengeStats, error)
	ChallengeTop(ctx context.Context, challengeID string, limit int) ([]model.UserChallengeStats, error)
	CountChallengeAhead(ctx context.Context, challengeID string, wins int) (int64, error)

	GlobalStats(ctx context.Context, userID string) (*model.UserGlobalStats, error)
	GlobalTop(ctx context.Context, limit int) ([]model.UserGlobalStats, error)
	CountGlobalAhead(ctx context.Context, challengesWon int) (int64, error)

	TypeScopedStats(ctx context.Context, typeName string, since *time.Time, userID string) (*TypeScopedRow, error)
	TypeScopedTop(ctx context.Context, typeName string, since *time.Time, limit int) ([]TypeScopedRow, error)
	CountTypeScopedAhead(ctx context.Context, typeName string, since *time.Time, wins int) (int64, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// ChallengeStats returns nil when the user never attempted the challenge.
func (r *statsRepository) ChallengeStats(ctx context.Context, userID, challengeID string) (*model.UserChallengeStats, error) {
	var stats model.UserChallengeStats
	err := r.db.WithContext(ctx).Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepository) ChallengeTop(ctx context.Context, challengeID string, limit int) ([]model.UserChallengeStats, error) {
	var rows []model.UserChallengeStats
	err := r.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("wins DESC, user_id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) CountChallengeAhead(ctx context.Context, challengeID string, wins int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserChallengeStats{}).
		Where("challenge_id = ? AND wins > ?", challengeID, wins).
		Count(&n).Error
	return n, err
}

// GlobalStats returns nil when the user has no row yet.
func (r *statsRepository) GlobalStats(ctx context.Context, userID string) (*model.UserGlobalStats, error) {
	var stats model.UserGlobalStats
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepository) GlobalTop(ctx context.Context, limit int) ([]model.UserGlobalStats, error) {
	var rows []model.UserGlobalStats
	err := r.db.WithContext(ctx).
		Order("challenges_won DESC, user_id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *statsRepository) CountGlobalAhead(ctx context.Context, challengesWon int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserGlobalStats{}).
		Where("challenges_won > ?", challengesWon).
		Count(&n).Error
	return n, err
}

// typeScoped aggregates attempts per user over challenges tagged typeName
// (all challenges when empty), created at or after since when it is set.
func (r *statsRepository) typeScoped(ctx context.Context, typeName string, since *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).Table("challenge_attempts AS a").
		Select("a.user_id AS user_id, SUM(CASE WHEN a.winner = ? THEN 1 ELSE 0 END) AS wins, COUNT(*) AS attempts", model.WinnerUser)
	if typeName != "" {
		q = q.
			Joins("JOIN challenge_type_links l ON l.challenge_id = a.challenge_id").
			Joins("JOIN challenge_types t ON t.id = l.challenge_type_id").
			Where("t.name = ?", typeName)
	}
	if since != nil {
		q = q.Where("a.created_at >= ?", *since)
	}
	return q.Group("a.user_id")
}

func (r *statsRepository) TypeScopedStats(ctx context.Context, typeName string, since *time.Time, userID string) (*TypeScopedRow, error) {
	var rows []TypeScopedRow
	err := r.db.WithContext(ctx).
		Table("(?) AS agg", r.typeScoped(ctx, typeName, since)).
		Select("agg.user_id, COALESCE(g.username, '') AS username, agg.wins, agg.attempts").
		Joins("LEFT JOIN user_global_stats g ON g.user_id = agg.user_id").
		Where("agg.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *statsRepository) TypeScopedTop(ctx context.Context, typeName string, since *time.Time, limit int) ([]TypeScopedRow, error) {
	var rows []TypeScopedRow
	err := r.db.WithContext(ctx).
		Table("(?) AS agg", r.typeScoped(ctx, typeName, since)).
		Select("agg.user_id, COALESCE(g.username, '') AS username, agg.wins, agg.attempts").
		Joins("LEFT JOIN user_global_stats g ON g.user_id = agg.user_id").
		Order("agg.wins DESC, agg.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *statsRepository) CountTypeScopedAhead(ctx context.Context, typeName string, since *time.Time, wins int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("(?) AS agg", r.typeScoped(ctx, typeName, since)).
		Where("agg.wins > ?", wins).
		Count(&n).Error
	return n, err
}

// SinceWindow returns the lower bound of a rolling window ending at now,
// or nil for an unbounded window.
func SinceWindow(now time.Time, window time.Duration) *time.Time {
	if window <= 0 {
		return nil
	}
	since := now.Add(-window).UTC()
	return &since
}
