package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/rs/zerolog/log"
)

type LevelStatus string

const (
	LevelCompleted LevelStatus = "completed"
	LevelNext      LevelStatus = "next"
	LevelAvailable LevelStatus = "available"
	LevelLocked    LevelStatus = "locked"
)

// LevelStatusFor derives a level's display status. It is never stored.
func LevelStatusFor(order, currentLevelOrder int, completed bool) LevelStatus {
	switch {
	case completed:
		return LevelCompleted
	case order == currentLevelOrder:
		return LevelNext
	case order == currentLevelOrder+1:
		return LevelAvailable
	}
	return LevelLocked
}

type JourneyService interface {
	ListJourneys(ctx context.Context) ([]dto.JourneySummaryDTO, error)
	GetJourney(ctx context.Context, userID, slug string) (*dto.JourneyDTO, error)
	EnsureProgress(ctx context.Context, userID, slug string) (*dto.JourneyProgressDTO, error)
	ListLevels(ctx context.Context, userID, slug string) ([]dto.LevelDTO, error)
	CompleteLevel(ctx context.Context, userID, slug, levelID, code string) (*dto.CompleteLevelResultDTO, error)
}

type journeyService struct {
	journeyRepo repository.JourneyRepository
	now         func() time.Time
}

func NewJourneyService(journeyRepo repository.JourneyRepository) JourneyService {
	return &journeyService{journeyRepo: journeyRepo, now: time.Now}
}

func (s *journeyService) ListJourneys(ctx context.Context) ([]dto.JourneySummaryDTO, error) {
	journeys, err := s.journeyRepo.ListPublished(ctx)
	if err != nil {
		log.Error().Err(err).Msg("ListJourneys: failed to load journeys")
		return nil, err
	}
	out := make([]dto.JourneySummaryDTO, 0, len(journeys))
	for _, j := range journeys {
		out = append(out, dto.JourneySummaryDTO{
			ID:          j.ID,
			Slug:        j.Slug,
			Title:       j.Title,
			Description: j.Description,
			LevelCount:  len(j.Levels),
		})
	}
	return out, nil
}

// GetJourney returns the journey with the user's progress. It creates no
// rows; an unstarted journey has a nil Progress.
func (s *journeyService) GetJourney(ctx context.Context, userID, slug string) (*dto.JourneyDTO, error) {
	journey, progress, levels, err := s.load(ctx, userID, slug)
	if err != nil {
		return nil, err
	}
	out := &dto.JourneyDTO{
		ID:          journey.ID,
		Slug:        journey.Slug,
		Title:       journey.Title,
		Description: journey.Description,
		Levels:      levels,
	}
	if progress != nil {
		p := toProgressDTO(progress)
		out.Progress = &p
	}
	return out, nil
}

func (s *journeyService) EnsureProgress(ctx context.Context, userID, slug string) (*dto.JourneyProgressDTO, error) {
	journey, err := s.journeyRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	progress, err := s.journeyRepo.EnsureProgress(ctx, userID, journey.ID)
	if err != nil {
		log.Error().Err(err).Str("journey", slug).Str("userID", userID).Msg("EnsureProgress: failed")
		return nil, fmt.Errorf("%w: %w", apperror.ErrPersistenceFailure, err)
	}
	p := toProgressDTO(progress)
	return &p, nil
}

func (s *journeyService) ListLevels(ctx context.Context, userID, slug string) ([]dto.LevelDTO, error) {
	_, _, levels, err := s.load(ctx, userID, slug)
	return levels, err
}

// CompleteLevel records a passed level and moves the frontier forward.
// Levels more than one past the frontier cannot be completed.
func (s *journeyService) CompleteLevel(ctx context.Context, userID, slug, levelID, code string) (*dto.CompleteLevelResultDTO, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("submittedCode must not be empty: %w", apperror.ErrValidation)
	}
	journey, err := s.journeyRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range journey.Levels {
		if journey.Levels[i].ID == levelID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("level %s in journey %q: %w", levelID, slug, apperror.ErrNotFound)
	}
	level := journey.Levels[idx]

	progress, err := s.journeyRepo.FindProgress(ctx, userID, journey.ID)
	if err != nil {
		return nil, err
	}
	current := 1
	if progress != nil {
		current = progress.CurrentLevelOrder
	}
	existing, err := s.journeyRepo.LevelProgressFor(ctx, userID, []string{levelID})
	if err != nil {
		return nil, err
	}
	completed := len(existing) > 0 && existing[0].IsCompleted
	// Levels behind the frontier stay completable; the upsert never moves it back.
	if !completed && level.Order > current+1 {
		return nil, fmt.Errorf("level %d is locked: %w", level.Order, apperror.ErrValidation)
	}

	in := repository.CompleteLevelInput{
		UserID:        userID,
		JourneyID:     journey.ID,
		LevelID:       level.ID,
		Code:          code,
		NextOrder:     level.Order,
		JourneyIsDone: true,
		CompletedAt:   s.now().UTC(),
	}
	if idx+1 < len(journey.Levels) {
		in.NextOrder = journey.Levels[idx+1].Order
		in.JourneyIsDone = false
	}

	lp, jp, err := s.journeyRepo.CompleteLevel(ctx, in)
	if err != nil {
		log.Error().Err(err).Str("journey", slug).Str("levelID", levelID).Str("userID", userID).Msg("CompleteLevel: failed to persist progress")
		return nil, err
	}
	log.Info().Str("journey", slug).Int("level", level.Order).Str("userID", userID).
		Int("currentLevelOrder", jp.CurrentLevelOrder).Bool("journeyCompleted", jp.IsCompleted).Msg("CompleteLevel: level completed")

	return &dto.CompleteLevelResultDTO{
		LevelProgress: dto.LevelProgressDTO{
			LevelID:           lp.LevelID,
			IsCompleted:       lp.IsCompleted,
			Attempts:          lp.Attempts,
			LastSubmittedCode: lp.LastSubmittedCode,
			CompletedAt:       lp.CompletedAt,
		},
		JourneyProgress: toProgressDTO(jp),
	}, nil
}

// load reads the journey, the user's progress (nil if unstarted) and the
// levels annotated with their derived status.
func (s *journeyService) load(ctx context.Context, userID, slug string) (*model.Journey, *model.JourneyProgress, []dto.LevelDTO, error) {
	journey, err := s.journeyRepo.FindBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			log.Error().Err(err).Str("journey", slug).Msg("load: failed to read journey")
		}
		return nil, nil, nil, err
	}
	progress, err := s.journeyRepo.FindProgress(ctx, userID, journey.ID)
	if err != nil {
		return nil, nil, nil, err
	}
	current := 1
	if progress != nil {
		current = progress.CurrentLevelOrder
	}

	ids := make([]string, len(journey.Levels))
	for i, l := range journey.Levels {
		ids[i] = l.ID
	}
	rows, err := s.journeyRepo.LevelProgressFor(ctx, userID, ids)
	if err != nil {
		return nil, nil, nil, err
	}
	done := make(map[string]bool, len(rows))
	for _, r := range rows {
		done[r.LevelID] = r.IsCompleted
	}

	levels := make([]dto.LevelDTO, len(journey.Levels))
	for i, l := range journey.Levels {
		hints := []string(l.Hints)
		if hints == nil {
			hints = []string{}
		}
		levels[i] = dto.LevelDTO{
			ID:             l.ID,
			Order:          l.Order,
			Title:          l.Title,
			Description:    l.Description,
			StarterCode:    l.StarterCode,
			ExpectedOutput: l.ExpectedOutput,
			Hints:          hints,
			Status:         string(LevelStatusFor(l.Order, current, done[l.ID])),
			IsCompleted:    done[l.ID],
		}
	}
	return journey, progress, levels, nil
}

func toProgressDTO(p *model.JourneyProgress) dto.JourneyProgressDTO {
	return dto.JourneyProgressDTO{
		JourneyID:         p.JourneyID,
		CurrentLevelOrder: p.CurrentLevelOrder,
		IsCompleted:       p.IsCompleted,
	}
}
