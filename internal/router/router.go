package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/codeduel/config"
	adminctrl "github.com/lshigami/codeduel/internal/controller/admin"
	userctrl "github.com/lshigami/codeduel/internal/controller/user"
	"github.com/lshigami/codeduel/internal/middleware"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

type Controllers struct {
	Challenges *userctrl.ChallengeController
	Journeys   *userctrl.JourneyController
	Admin      *adminctrl.AdminController
}

// RegisterRoutes mounts the API under /api/v1 and the health check.
func RegisterRoutes(router *gin.Engine, auth *middleware.Authenticator, ctrls Controllers, db *gorm.DB) {
	router.GET("/health", healthHandler(db))

	api := router.Group("/api/v1")
	{
		challenges := api.Group("/challenges")
		challenges.GET("", auth.OptionalAuth(), ctrls.Challenges.ListChallenges)
		challenges.GET("/leaderboard", auth.OptionalAuth(), ctrls.Challenges.GetLeaderboard)
		challenges.GET("/:id", auth.RequireAuth(), ctrls.Challenges.GetChallenge)
		challenges.POST("/:id/attempt", auth.RequireAuth(), ctrls.Challenges.SubmitAttempt)

		journeys := api.Group("/journeys")
		journeys.GET("", ctrls.Journeys.ListJourneys)
		journeys.GET("/:slug", auth.RequireAuth(), ctrls.Journeys.GetJourney)
		journeys.GET("/:slug/progress", auth.RequireAuth(), ctrls.Journeys.GetProgress)
		journeys.GET("/:slug/levels", auth.RequireAuth(), ctrls.Journeys.ListLevels)
		journeys.POST("/:slug/levels/:levelId/complete", auth.RequireAuth(), ctrls.Journeys.CompleteLevel)
	}

	admin := api.Group("/admin", auth.RequireAuth(), middleware.RequireAdmin())
	{
		admin.POST("/challenges", ctrls.Admin.CreateChallenge)
		admin.POST("/journeys", ctrls.Admin.CreateJourney)
	}
}

// healthHandler godoc
// @Summary Liveness and database check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			log.Error().Err(err).Msg("health: database unreachable")
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
