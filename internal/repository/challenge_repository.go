package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/model"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge, typeNames []string) error
	FindActiveByID(ctx context.Context, id string) (*model.Challenge, error)
	ListActive(ctx context.Context, typeName string) ([]model.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

// Create stores the challenge, its test cases and its type links in one transaction.
// Unknown type names are rejected.
func (r *challengeRepository) Create(ctx context.Context, challenge *model.Challenge, typeNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(typeNames) > 0 {
			var types []model.ChallengeType
			if err := tx.Where("name IN ?", typeNames).Find(&types).Error; err != nil {
				return err
			}
			if len(types) != len(typeNames) {
				return fmt.Errorf("unknown challenge type in %v: %w", typeNames, apperror.ErrValidation)
			}
			challenge.ChallengeTypes = types
		}
		return tx.Create(challenge).Error
	})
}

func (r *challengeRepository) FindActiveByID(ctx context.Context, id string) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.db.WithContext(ctx).
		Preload("ChallengeTypes").
		Preload("TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("challenge_test_cases.sort_order ASC, challenge_test_cases.id ASC")
		}).
		Where("is_active = ?", true).
		First(&challenge, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("challenge %s: %w", id, apperror.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) ListActive(ctx context.Context, typeName string) ([]model.Challenge, error) {
	var challenges []model.Challenge
	query := r.db.WithContext(ctx).Model(&model.Challenge{}).
		Preload("ChallengeTypes").
		Where("challenges.is_active = ?", true)
	if typeName != "" {
		query = query.
			Joins("JOIN challenge_type_links ON challenge_type_links.challenge_id = challenges.id").
			Joins("JOIN challenge_types ON challenge_types.id = challenge_type_links.challenge_type_id").
			Where("challenge_types.name = ?", typeName)
	}
	err := query.Order("challenges.created_at DESC").Find(&challenges).Error
	return challenges, err
}
