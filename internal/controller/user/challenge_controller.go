package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/codeduel/internal/controller"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/middleware"
	"github.com/lshigami/codeduel/internal/service"
)

type ChallengeController struct {
	sessionService     service.ChallengeSessionService
	leaderboardService service.LeaderboardService
}

func NewChallengeController(sessionService service.ChallengeSessionService, leaderboardService service.LeaderboardService) *ChallengeController {
	return &ChallengeController{sessionService: sessionService, leaderboardService: leaderboardService}
}

// ListChallenges godoc
// @Summary List active challenges
// @Description Active challenges, optionally filtered by type.
// @Tags Challenges
// @Produce json
// @Param type query string false "code_golf | time_trial | memory_optimization | debugging"
// @Success 200 {array} dto.ChallengeSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown type"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges [get]
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	challenges, err := c.sessionService.ListChallenges(ctx.Request.Context(), ctx.Query("type"))
	if err != nil {
		controller.RespondError(ctx, "ListChallenges", err)
		return
	}
	ctx.JSON(http.StatusOK, challenges)
}

// GetChallenge godoc
// @Summary Start a challenge
// @Description Challenge details with visible test cases, the caller's recent attempts and stats, and the challenge top 10.
// @Tags Challenges
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Success 200 {object} dto.ChallengeDetailDTO
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges/{id} [get]
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	detail, err := c.sessionService.Start(ctx.Request.Context(), ctx.Param("id"), controller.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, "GetChallenge", err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// SubmitAttempt godoc
// @Summary Submit code against the AI opponent
// @Description Runs the submission and an AI-generated solution on every test case, judges the duel and records the attempt.
// @Tags Challenges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Challenge ID"
// @Param attempt body dto.SubmitAttemptRequest true "Language and code"
// @Success 200 {object} dto.AttemptResultDTO
// @Failure 400 {object} dto.ErrorResponse "Missing code or unsupported language"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Execution or persistence failure"
// @Router /challenges/{id}/attempt [post]
func (c *ChallengeController) SubmitAttempt(ctx *gin.Context) {
	var req dto.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "SubmitAttempt", err)
		return
	}
	id, _ := middleware.CurrentUser(ctx)
	result, err := c.sessionService.Submit(ctx.Request.Context(), service.SubmitInput{
		ChallengeID: ctx.Param("id"),
		UserID:      id.UserID,
		Username:    id.Username,
		LanguageID:  req.LanguageID,
		Code:        req.UserCode,
	})
	if err != nil {
		controller.RespondError(ctx, "SubmitAttempt", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetLeaderboard godoc
// @Summary Challenge leaderboard
// @Description Top 50 by wins, globally or for one challenge type, over all time or a rolling week/month. Includes the caller's rank when authenticated.
// @Tags Challenges
// @Produce json
// @Param type query string false "global (default) | code_golf | time_trial | memory_optimization | debugging"
// @Param timeFrame query string false "all (default) | week | month"
// @Success 200 {object} dto.LeaderboardDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown type or time frame"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges/leaderboard [get]
func (c *ChallengeController) GetLeaderboard(ctx *gin.Context) {
	var q dto.LeaderboardQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		controller.RespondBindError(ctx, "GetLeaderboard", err)
		return
	}
	board, err := c.leaderboardService.Leaderboard(ctx.Request.Context(),
		strings.TrimSpace(q.Type), strings.TrimSpace(q.TimeFrame), controller.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, "GetLeaderboard", err)
		return
	}
	ctx.JSON(http.StatusOK, board)
}
