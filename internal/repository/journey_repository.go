package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JourneyRepository interface {
	Create(ctx context.Context, journey *model.Journey) error
	FindBySlug(ctx context.Context, slug string) (*model.Journey, error)
	ListPublished(ctx context.Context) ([]model.Journey, error)

	FindProgress(ctx context.Context, userID, journeyID string) (*model.JourneyProgress, error)
	EnsureProgress(ctx context.Context, userID, journeyID string) (*model.JourneyProgress, error)
	LevelProgressFor(ctx context.Context, userID string, levelIDs []string) ([]model.LevelProgress, error)
	CompleteLevel(ctx context.Context, in CompleteLevelInput) (*model.LevelProgress, *model.JourneyProgress, error)
}

type CompleteLevelInput struct {
	UserID        string
	JourneyID     string
	LevelID       string
	Code          string
	NextOrder     int  // frontier after this completion
	JourneyIsDone bool // no level follows the completed one
	CompletedAt   time.Time
}

type journeyRepository struct {
	db *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) JourneyRepository {
	return &journeyRepository{db: db}
}

func (r *journeyRepository) Create(ctx context.Context, journey *model.Journey) error {
	return r.db.WithContext(ctx).Create(journey).Error
}

func (r *journeyRepository) FindBySlug(ctx context.Context, slug string) (*model.Journey, error) {
	var journey model.Journey
	err := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("levels.level_order ASC")
		}).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&journey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("journey %q: %w", slug, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &journey, nil
}

func (r *journeyRepository) ListPublished(ctx context.Context) ([]model.Journey, error) {
	var journeys []model.Journey
	err := r.db.WithContext(ctx).
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "journey_id", "level_order").Order("levels.level_order ASC")
		}).
		Where("is_published = ?", true).
		Order("created_at ASC").
		Find(&journeys).Error
	return journeys, err
}

// FindProgress returns nil when the user has not started the journey.
func (r *journeyRepository) FindProgress(ctx context.Context, userID, journeyID string) (*model.JourneyProgress, error) {
	var progress model.JourneyProgress
	err := r.db.WithContext(ctx).Where("user_id = ? AND journey_id = ?", userID, journeyID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// EnsureProgress is idempotent: the unique (user_id, journey_id) index turns a
// second insert into a no-op and the stored row is read back.
func (r *journeyRepository) EnsureProgress(ctx context.Context, userID, journeyID string) (*model.JourneyProgress, error) {
	db := r.db.WithContext(ctx)
	fresh := model.JourneyProgress{UserID: userID, JourneyID: journeyID, CurrentLevelOrder: 1}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "journey_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}
	var progress model.JourneyProgress
	if err := db.Where("user_id = ? AND journey_id = ?", userID, journeyID).First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *journeyRepository) LevelProgressFor(ctx context.Context, userID string, levelIDs []string) ([]model.LevelProgress, error) {
	var rows []model.LevelProgress
	if len(levelIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("user_id = ? AND level_id IN ?", userID, levelIDs).Find(&rows).Error
	return rows, err
}

// CompleteLevel upserts both progress rows in one transaction. The journey
// frontier only moves forward and a completed journey stays completed.
func (r *journeyRepository) CompleteLevel(ctx context.Context, in CompleteLevelInput) (*model.LevelProgress, *model.JourneyProgress, error) {
	var levelProgress model.LevelProgress
	var journeyProgress model.JourneyProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		completedAt := in.CompletedAt
		lp := model.LevelProgress{
			UserID:            in.UserID,
			LevelID:           in.LevelID,
			IsCompleted:       true,
			Attempts:          1,
			LastSubmittedCode: in.Code,
			CompletedAt:       &completedAt,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "level_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_completed":        true,
				"attempts":            gorm.Expr("level_progresses.attempts + ?", 1),
				"last_submitted_code": in.Code,
				"completed_at":        gorm.Expr("COALESCE(level_progresses.completed_at, ?)", completedAt),
				"updated_at":          completedAt,
			}),
		}).Create(&lp).Error; err != nil {
			return fmt.Errorf("upsert level progress: %w", err)
		}

		jp := model.JourneyProgress{
			UserID:            in.UserID,
			JourneyID:         in.JourneyID,
			CurrentLevelOrder: in.NextOrder,
			IsCompleted:       in.JourneyIsDone,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "journey_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"current_level_order": gorm.Expr(
					"CASE WHEN journey_progresses.current_level_order < ? THEN ? ELSE journey_progresses.current_level_order END",
					in.NextOrder, in.NextOrder,
				),
				"is_completed": gorm.Expr("journey_progresses.is_completed OR ?", in.JourneyIsDone),
				"updated_at":   completedAt,
			}),
		}).Create(&jp).Error; err != nil {
			return fmt.Errorf("upsert journey progress: %w", err)
		}

		if err := tx.Where("user_id = ? AND level_id = ?", in.UserID, in.LevelID).First(&levelProgress).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND journey_id = ?", in.UserID, in.JourneyID).First(&journeyProgress).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", apperror.ErrPersistenceFailure, err)
	}
	return &levelProgress, &journeyProgress, nil
}
