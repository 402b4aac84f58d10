package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminService interface {
	CreateChallenge(ctx context.Context, req dto.ChallengeCreateDTO) (*dto.AdminChallengeDTO, error)
	CreateJourney(ctx context.Context, req dto.JourneyCreateDTO) (*dto.JourneySummaryDTO, error)
}

type adminService struct {
	challengeRepo repository.ChallengeRepository
	journeyRepo   repository.JourneyRepository
}

func NewAdminService(challengeRepo repository.ChallengeRepository, journeyRepo repository.JourneyRepository) AdminService {
	return &adminService{challengeRepo: challengeRepo, journeyRepo: journeyRepo}
}

func (s *adminService) CreateChallenge(ctx context.Context, req dto.ChallengeCreateDTO) (*dto.AdminChallengeDTO, error) {
	if len(req.TestCases) == 0 {
		return nil, fmt.Errorf("a challenge needs at least one test case: %w", apperror.ErrValidation)
	}
	types := make([]string, 0, len(req.Types))
	seen := make(map[string]bool)
	for _, t := range req.Types {
		t = strings.ToLower(strings.TrimSpace(t))
		if !model.IsChallengeCategory(t) {
			return nil, fmt.Errorf("unknown challenge type %q: %w", t, apperror.ErrValidation)
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	if req.TimeLimitMs == 0 {
		req.TimeLimitMs = 2000
	}
	if req.MemoryLimitKb == 0 {
		req.MemoryLimitKb = 128000
	}

	challenge := &model.Challenge{
		Slug:          slug.Make(req.Title),
		Title:         req.Title,
		Description:   req.Description,
		StarterCode:   req.StarterCode,
		SolutionCode:  req.SolutionCode,
		SampleInput:   req.SampleInput,
		SampleOutput:  req.SampleOutput,
		TimeLimitMs:   req.TimeLimitMs,
		MemoryLimitKb: req.MemoryLimitKb,
		Difficulty:    req.Difficulty,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	for i, tc := range req.TestCases {
		challenge.TestCases = append(challenge.TestCases, model.ChallengeTestCase{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			IsHidden:       tc.IsHidden,
			SortOrder:      i + 1,
		})
	}

	err := s.challengeRepo.Create(ctx, challenge, types)
	if apperror.IsUniqueViolation(err) {
		// title collision: retry once with a suffixed slug
		challenge.ID = ""
		challenge.ChallengeTypes = nil
		for i := range challenge.TestCases {
			challenge.TestCases[i].ID = 0
			challenge.TestCases[i].ChallengeID = ""
		}
		challenge.Slug = slug.Make(req.Title) + "-" + uuid.NewString()[:8]
		err = s.challengeRepo.Create(ctx, challenge, types)
	}
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateChallenge: failed to create challenge")
		return nil, err
	}
	log.Info().Str("challengeID", challenge.ID).Str("slug", challenge.Slug).Msg("CreateChallenge: challenge created")

	out := &dto.AdminChallengeDTO{
		ID:         challenge.ID,
		Slug:       challenge.Slug,
		Title:      challenge.Title,
		Difficulty: challenge.Difficulty,
		IsActive:   challenge.IsActive,
		Types:      challenge.TypeNames(),
		CreatedAt:  challenge.CreatedAt,
	}
	for _, tc := range challenge.TestCases {
		out.TestCases = append(out.TestCases, dto.AdminTestCaseDTO{
			ID:             tc.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			IsHidden:       tc.IsHidden,
			SortOrder:      tc.SortOrder,
		})
	}
	return out, nil
}

func (s *adminService) CreateJourney(ctx context.Context, req dto.JourneyCreateDTO) (*dto.JourneySummaryDTO, error) {
	orders := make(map[int]bool)
	journey := &model.Journey{
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
	}
	for _, l := range req.Levels {
		if l.Order < 1 {
			return nil, fmt.Errorf("level order must be at least 1, got %d: %w", l.Order, apperror.ErrValidation)
		}
		if orders[l.Order] {
			return nil, fmt.Errorf("duplicate level order %d: %w", l.Order, apperror.ErrValidation)
		}
		orders[l.Order] = true
		journey.Levels = append(journey.Levels, model.Level{
			Order:          l.Order,
			Title:          l.Title,
			Description:    l.Description,
			StarterCode:    l.StarterCode,
			ExpectedOutput: l.ExpectedOutput,
			Hints:          l.Hints,
		})
	}

	explicit := strings.TrimSpace(req.Slug) != ""
	journey.Slug = slug.Make(req.Title)
	if explicit {
		journey.Slug = slug.Make(req.Slug)
	}
	if journey.Slug == "" {
		return nil, fmt.Errorf("journey title does not produce a slug: %w", apperror.ErrValidation)
	}

	err := s.journeyRepo.Create(ctx, journey)
	if apperror.IsUniqueViolation(err) {
		if explicit {
			return nil, fmt.Errorf("journey slug %q already exists: %w", journey.Slug, apperror.ErrConflict)
		}
		journey.ID = ""
		for i := range journey.Levels {
			journey.Levels[i].ID = ""
			journey.Levels[i].JourneyID = ""
		}
		journey.Slug = journey.Slug + "-" + uuid.NewString()[:8]
		err = s.journeyRepo.Create(ctx, journey)
	}
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("CreateJourney: failed to create journey")
		return nil, err
	}
	log.Info().Str("journeyID", journey.ID).Str("slug", journey.Slug).Msg("CreateJourney: journey created")

	return &dto.JourneySummaryDTO{
		ID:          journey.ID,
		Slug:        journey.Slug,
		Title:       journey.Title,
		Description: journey.Description,
		LevelCount:  len(journey.Levels),
	}, nil
}
