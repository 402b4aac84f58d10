package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/codeduel/internal/controller"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/service"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

// CreateChallenge godoc
// @Summary (Admin) Create a challenge
// @Description Creates a challenge with its test cases and type tags. Active unless isActive is false.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param challenge body dto.ChallengeCreateDTO true "Challenge with at least one test case"
// @Success 201 {object} dto.AdminChallengeDTO "Challenge created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/challenges [post]
func (c *AdminController) CreateChallenge(ctx *gin.Context) {
	var req dto.ChallengeCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "Admin CreateChallenge", err)
		return
	}
	created, err := c.adminService.CreateChallenge(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateChallenge", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// CreateJourney godoc
// @Summary (Admin) Create a journey
// @Description Creates a journey with uniquely ordered levels. The slug is derived from the title unless given.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param journey body dto.JourneyCreateDTO true "Journey with its levels"
// @Success 201 {object} dto.JourneySummaryDTO "Journey created"
// @Failure 400 {object} dto.ErrorResponse "Invalid input data"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Not an admin"
// @Failure 409 {object} dto.ErrorResponse "Slug already taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/journeys [post]
func (c *AdminController) CreateJourney(ctx *gin.Context) {
	var req dto.JourneyCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, "Admin CreateJourney", err)
		return
	}
	created, err := c.adminService.CreateJourney(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Admin CreateJourney", err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}
