package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/codeduel/internal/controller"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/service"
)

type JourneyController struct {
	journeyService service.JourneyService
}

func NewJourneyController(journeyService service.JourneyService) *JourneyController {
	return &JourneyController{journeyService: journeyService}
}

// ListJourneys godoc
// @Summary List published journeys
// @Tags Journeys
// @Produce json
// @Success 200 {array} dto.JourneySummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys [get]
func (c *JourneyController) ListJourneys(ctx *gin.Context) {
	journeys, err := c.journeyService.ListJourneys(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, "ListJourneys", err)
		return
	}
	ctx.JSON(http.StatusOK, journeys)
}

// GetJourney godoc
// @Summary Journey with the caller's progress
// @Description Journey metadata and ordered levels with derived status. Does not start the journey.
// @Tags Journeys
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Journey slug"
// @Success 200 {object} dto.JourneyDTO
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Router /journeys/{slug} [get]
func (c *JourneyController) GetJourney(ctx *gin.Context) {
	journey, err := c.journeyService.GetJourney(ctx.Request.Context(), controller.UserID(ctx), ctx.Param("slug"))
	if err != nil {
		controller.RespondError(ctx, "GetJourney", err)
		return
	}
	ctx.JSON(http.StatusOK, journey)
}

// GetProgress godoc
// @Summary Get or start journey progress
// @Description Returns the caller's progress, creating it at level 1 on first call.
// @Tags Journeys
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Journey slug"
// @Success 200 {object} dto.JourneyProgressDTO
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Router /journeys/{slug}/progress [get]
func (c *JourneyController) GetProgress(ctx *gin.Context) {
	progress, err := c.journeyService.EnsureProgress(ctx.Request.Context(), controller.UserID(ctx), ctx.Param("slug"))
	if err != nil {
		controller.RespondError(ctx, "GetProgress", err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// ListLevels godoc
// @Summary Levels with status
// @Description Ordered levels annotated with locked, completed, next or available.
// @Tags Journeys
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Journey slug"
// @Success 200 {array} dto.LevelDTO
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Journey not found"
// @Router /journeys/{slug}/levels [get]
func (c *JourneyController) ListLevels(ctx *gin.Context) {
	levels, err := c.journeyService.ListLevels(ctx.Request.Context(), controller.UserID(ctx), ctx.Param("slug"))
	if err != nil {
		controller.RespondError(ctx, "ListLevels", err)
		return
	}
	ctx.JSON(http.StatusOK, levels)
}

// CompleteLevel godoc
// @Summary Complete a level
// @Description Records the submitted code and advances the journey frontier.
// @Tags Journeys
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Journey slug"
// @Param levelId path string true "Level ID"
// @Param submission body dto.CompleteLevelRequest true "Submitted code"
// @Success 200 {object} dto.CompleteLevelResultDTO
// @Failure 400 {object} dto.ErrorResponse "Missing code or locked level"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Journey or level not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /journeys/{slug}/levels/{levelId}/complete [post]
func (c *JourneyController) CompleteLevel(ctx *gin.Context) {
	var req dto.CompleteLevelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "CompleteLevel", err)
		return
	}
	result, err := c.journeyService.CompleteLevel(ctx.Request.Context(),
		controller.UserID(ctx), ctx.Param("slug"), ctx.Param("levelId"), req.SubmittedCode)
	if err != nil {
		controller.RespondError(ctx, "CompleteLevel", err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
