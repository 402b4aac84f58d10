package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const recentAttemptLimit = 5

// AIGeneration is the outcome of asking the AI opponent for a solution.
// A failed generation is a normal result, not an error.
type AIGeneration struct {
	Code   string
	Failed bool
	Reason string
}

type SubmitInput struct {
	ChallengeID string
	UserID      string
	Username    string
	LanguageID  int
	Code        string
}

// ChallengeSessionService runs a user-vs-AI duel on a challenge.
type ChallengeSessionService interface {
	ListChallenges(ctx context.Context, typeName string) ([]dto.ChallengeSummaryDTO, error)
	Start(ctx context.Context, challengeID, userID string) (*dto.ChallengeDetailDTO, error)
	GenerateAICode(ctx context.Context, challenge *model.Challenge, languageID int) AIGeneration
	Execute(ctx context.Context, code string, languageID int, challenge *model.Challenge) (ExecutionOutcome, error)
	Submit(ctx context.Context, in SubmitInput) (*dto.AttemptResultDTO, error)
}

type challengeSessionService struct {
	challengeRepo  repository.ChallengeRepository
	attemptRepo    repository.AttemptRepository
	statsRepo      repository.StatsRepository
	executor       CodeExecutionService
	aiSolver       AISolutionService
	leaderboard    LeaderboardService
	maxConcurrency int
}

func NewChallengeSessionService(
	challengeRepo repository.ChallengeRepository,
	attemptRepo repository.AttemptRepository,
	statsRepo repository.StatsRepository,
	executor CodeExecutionService,
	aiSolver AISolutionService,
	leaderboard LeaderboardService,
	cfg *config.Config,
) ChallengeSessionService {
	limit := cfg.Judge0.MaxConcurrency
	if limit < 1 {
		limit = 1
	}
	return &challengeSessionService{
		challengeRepo:  challengeRepo,
		attemptRepo:    attemptRepo,
		statsRepo:      statsRepo,
		executor:       executor,
		aiSolver:       aiSolver,
		leaderboard:    leaderboard,
		maxConcurrency: limit,
	}
}

func (s *challengeSessionService) ListChallenges(ctx context.Context, typeName string) ([]dto.ChallengeSummaryDTO, error) {
	typeName = strings.ToLower(strings.TrimSpace(typeName))
	if typeName != "" && !model.IsChallengeCategory(typeName) {
		return nil, fmt.Errorf("unknown challenge type %q: %w", typeName, apperror.ErrValidation)
	}
	challenges, err := s.challengeRepo.ListActive(ctx, typeName)
	if err != nil {
		log.Error().Err(err).Str("type", typeName).Msg("ListChallenges: failed to load challenges")
		return nil, err
	}
	summaries := make([]dto.ChallengeSummaryDTO, 0, len(challenges))
	for i := range challenges {
		c := &challenges[i]
		summaries = append(summaries, dto.ChallengeSummaryDTO{
			ID:         c.ID,
			Slug:       c.Slug,
			Title:      c.Title,
			Difficulty: c.Difficulty,
			Types:      c.TypeNames(),
		})
	}
	return summaries, nil
}

// Start loads what a user needs to begin a challenge. It never writes.
func (s *challengeSessionService) Start(ctx context.Context, challengeID, userID string) (*dto.ChallengeDetailDTO, error) {
	challenge, err := s.challengeRepo.FindActiveByID(ctx, challengeID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			log.Error().Err(err).Str("challengeID", challengeID).Msg("Start: failed to load challenge")
		}
		return nil, err
	}

	challengeDTO, err := toChallengeDTO(challenge)
	if err != nil {
		return nil, err
	}
	detail := &dto.ChallengeDetailDTO{
		Challenge:      challengeDTO,
		RecentAttempts: []dto.AttemptDTO{},
	}

	if userID != "" {
		recent, err := s.attemptRepo.RecentForUser(ctx, userID, challengeID, recentAttemptLimit)
		if err != nil {
			log.Error().Err(err).Str("challengeID", challengeID).Str("userID", userID).Msg("Start: failed to load recent attempts")
			return nil, err
		}
		for i := range recent {
			var a dto.AttemptDTO
			if err := copier.Copy(&a, &recent[i]); err != nil {
				return nil, fmt.Errorf("map attempt: %w", err)
			}
			detail.RecentAttempts = append(detail.RecentAttempts, a)
		}

		stats, err := s.statsRepo.ChallengeStats(ctx, userID, challengeID)
		if err != nil {
			log.Error().Err(err).Str("challengeID", challengeID).Str("userID", userID).Msg("Start: failed to load user stats")
			return nil, err
		}
		if stats != nil {
			detail.UserStats = &dto.ChallengeStatsDTO{Attempts: stats.Attempts, Wins: stats.Wins}
		}
	}

	detail.Leaderboard, err = s.leaderboard.ChallengeLeaderboard(ctx, challengeID)
	if err != nil {
		log.Error().Err(err).Str("challengeID", challengeID).Msg("Start: failed to load leaderboard")
		return nil, err
	}
	return detail, nil
}

// GenerateAICode asks the AI opponent for a solution pitched at the
// challenge's difficulty. Failures are logged and returned as Failed.
func (s *challengeSessionService) GenerateAICode(ctx context.Context, challenge *model.Challenge, languageID int) AIGeneration {
	skill := SkillLevelFor(ParseDifficulty(challenge.Difficulty))
	code, err := s.aiSolver.GenerateSolution(ctx, GenerateRequest{Challenge: challenge, LanguageID: languageID, Skill: skill})
	if err == nil && strings.TrimSpace(code) == "" {
		err = fmt.Errorf("empty solution: %w", apperror.ErrUpstreamFailure)
	}
	if err != nil {
		log.Warn().Err(err).Str("challengeID", challenge.ID).Int("languageID", languageID).Str("skill", string(skill)).
			Msg("GenerateAICode: AI opponent could not produce a solution")
		reason := "The AI opponent could not generate a solution."
		if errors.Is(err, apperror.ErrUpstreamTimeout) {
			reason = "The AI opponent ran out of time."
		}
		return AIGeneration{Failed: true, Reason: reason}
	}
	return AIGeneration{Code: code}
}

// Execute runs code against every test case, hidden ones included. The
// first sandbox error cancels the remaining cases.
func (s *challengeSessionService) Execute(ctx context.Context, code string, languageID int, challenge *model.Challenge) (ExecutionOutcome, error) {
	if len(challenge.TestCases) == 0 {
		return ExecutionOutcome{}, fmt.Errorf("challenge %s has no test cases", challenge.ID)
	}

	cases := make([]CaseOutcome, len(challenge.TestCases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for i := range challenge.TestCases {
		tc := challenge.TestCases[i]
		g.Go(func() error {
			res, err := s.executor.Run(gctx, RunRequest{
				Code:           code,
				LanguageID:     languageID,
				Stdin:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				TimeLimitMs:    challenge.TimeLimitMs,
				MemoryLimitKb:  challenge.MemoryLimitKb,
			})
			if err != nil {
				return fmt.Errorf("test case %d: %w", tc.ID, err)
			}
			cases[i] = CaseOutcome{
				TestCaseID: tc.ID,
				Passed:     res.Passed(),
				TimeSec:    res.TimeSec,
				MemoryKb:   res.MemoryKb,
				Status:     res.StatusDescription,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ExecutionOutcome{}, err
	}

	outcome := ExecutionOutcome{Correct: true, Cases: cases}
	for _, c := range cases {
		outcome.Correct = outcome.Correct && c.Passed
		if c.TimeSec > outcome.TimeSec {
			outcome.TimeSec = c.TimeSec
		}
		if c.MemoryKb > outcome.MemoryKb {
			outcome.MemoryKb = c.MemoryKb
		}
	}
	return outcome, nil
}

// Submit judges the user's code against an AI opponent and records the
// attempt together with both stats rows.
func (s *challengeSessionService) Submit(ctx context.Context, in SubmitInput) (*dto.AttemptResultDTO, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("missing user identity: %w", apperror.ErrUnauthorized)
	}
	if strings.TrimSpace(in.Code) == "" {
		return nil, fmt.Errorf("userCode must not be empty: %w", apperror.ErrValidation)
	}
	if _, ok := LanguageName(in.LanguageID); !ok {
		return nil, fmt.Errorf("unsupported languageId %d: %w", in.LanguageID, apperror.ErrValidation)
	}

	challenge, err := s.challengeRepo.FindActiveByID(ctx, in.ChallengeID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			log.Error().Err(err).Str("challengeID", in.ChallengeID).Msg("Submit: failed to load challenge")
		}
		return nil, err
	}
	category := challenge.PrimaryCategory()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		aiGen     AIGeneration
		aiOutcome ExecutionOutcome
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		aiGen, aiOutcome = s.runAI(runCtx, challenge, in.LanguageID)
	}()

	userOutcome, err := s.Execute(runCtx, in.Code, in.LanguageID, challenge)
	if err != nil {
		cancel()
		wg.Wait()
		log.Error().Err(err).Str("challengeID", challenge.ID).Str("userID", in.UserID).Msg("Submit: user code execution failed")
		if !errors.Is(err, apperror.ErrUpstreamFailure) && !errors.Is(err, apperror.ErrUpstreamTimeout) {
			err = fmt.Errorf("%w: %w", apperror.ErrUpstreamFailure, err)
		}
		return nil, fmt.Errorf("execute user code: %w", err)
	}
	wg.Wait()

	aiCode := aiGen.Code
	if aiGen.Failed {
		aiCode = model.AIGenerationFailedCode
	}
	winner := Judge(category,
		Competitor{Code: in.Code, Outcome: userOutcome},
		Competitor{Code: aiCode, Outcome: aiOutcome},
	)

	attempt := &model.ChallengeAttempt{
		UserID:             in.UserID,
		ChallengeID:        challenge.ID,
		LanguageID:         in.LanguageID,
		UserCode:           in.Code,
		AICode:             aiCode,
		AIGenerationFailed: aiGen.Failed,
		UserCorrect:        userOutcome.Correct,
		AICorrect:          aiOutcome.Correct,
		UserTimeSec:        userOutcome.TimeSec,
		AITimeSec:          aiOutcome.TimeSec,
		UserMemoryKb:       userOutcome.MemoryKb,
		AIMemoryKb:         aiOutcome.MemoryKb,
		Winner:             winner,
	}
	persisted, err := s.attemptRepo.Persist(ctx, attempt, repository.StatsUpdate{
		Username:     in.Username,
		RatingColumn: RatingColumnFor(category),
		RatingDelta:  RatingDelta(winner),
	})
	if err != nil {
		log.Error().Err(err).Str("challengeID", challenge.ID).Str("userID", in.UserID).Msg("Submit: failed to persist attempt")
		return nil, err
	}
	s.leaderboard.Invalidate(ctx)

	log.Info().Str("attemptID", attempt.ID).Str("challengeID", challenge.ID).Str("userID", in.UserID).
		Str("winner", winner).Bool("aiGenerationFailed", aiGen.Failed).Msg("Submit: attempt recorded")

	result := &dto.AttemptResultDTO{
		Winner:             winner,
		AIGenerationFailed: aiGen.Failed,
		AIFailureReason:    aiGen.Reason,
		UserResult:         summarize(userOutcome),
		AIResult:           summarize(aiOutcome),
		UserStats: dto.ChallengeStatsDTO{
			Attempts: persisted.ChallengeStats.Attempts,
			Wins:     persisted.ChallengeStats.Wins,
		},
	}
	if !aiGen.Failed {
		result.AICode = &aiGen.Code
	}
	if err := copier.Copy(&result.Attempt, attempt); err != nil {
		return nil, fmt.Errorf("map attempt: %w", err)
	}
	if err := copier.Copy(&result.GlobalStats, &persisted.GlobalStats); err != nil {
		return nil, fmt.Errorf("map global stats: %w", err)
	}
	return result, nil
}

// runAI generates and executes the AI solution. Any failure leaves the AI
// side incorrect.
func (s *challengeSessionService) runAI(ctx context.Context, challenge *model.Challenge, languageID int) (AIGeneration, ExecutionOutcome) {
	gen := s.GenerateAICode(ctx, challenge, languageID)
	if gen.Failed {
		return gen, ExecutionOutcome{}
	}
	outcome, err := s.Execute(ctx, gen.Code, languageID, challenge)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("challengeID", challenge.ID).Msg("runAI: AI code execution failed, counting it as incorrect")
		}
		return gen, ExecutionOutcome{}
	}
	return gen, outcome
}

func summarize(o ExecutionOutcome) dto.ExecutionSummaryDTO {
	s := dto.ExecutionSummaryDTO{
		Correct:    o.Correct,
		TimeSec:    o.TimeSec,
		MemoryKb:   o.MemoryKb,
		TotalCases: len(o.Cases),
	}
	for _, c := range o.Cases {
		if c.Passed {
			s.PassedCases++
		}
	}
	return s
}

// toChallengeDTO maps a challenge for the client. Hidden test cases and
// the reference solution are left out.
func toChallengeDTO(c *model.Challenge) (dto.ChallengeDTO, error) {
	var out dto.ChallengeDTO
	if err := copier.Copy(&out, c); err != nil {
		return dto.ChallengeDTO{}, fmt.Errorf("map challenge: %w", err)
	}
	out.Types = c.TypeNames()
	visible := c.VisibleTestCases()
	out.TestCases = make([]dto.TestCaseDTO, len(visible))
	for i, tc := range visible {
		out.TestCases[i] = dto.TestCaseDTO{
			ID:             tc.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			SortOrder:      tc.SortOrder,
		}
	}
	return out, nil
}
