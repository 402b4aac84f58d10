package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/database"
	_ "github.com/lshigami/codeduel/docs" // Swagger docs - generated by swag init
	"github.com/lshigami/codeduel/internal/cache"
	adminctrl "github.com/lshigami/codeduel/internal/controller/admin"
	userctrl "github.com/lshigami/codeduel/internal/controller/user"
	"github.com/lshigami/codeduel/internal/logger"
	"github.com/lshigami/codeduel/internal/middleware"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/lshigami/codeduel/internal/router"
	"github.com/lshigami/codeduel/internal/scheduler"
	"github.com/lshigami/codeduel/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title CodeDuel API
// @version 1.0
// @description Coding challenges against an AI opponent, with leaderboards and guided journeys.
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.url http://example.com/support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewCache,
			router.NewGinEngine,
			middleware.NewAuthenticator,
		),

		fx.Provide(
			repository.NewChallengeRepository,
			repository.NewAttemptRepository,
			repository.NewStatsRepository,
			repository.NewJourneyRepository,
		),

		fx.Provide(
			service.NewJudge0Service,
			service.NewGeminiSolutionService,
			service.NewLeaderboardService,
			service.NewChallengeSessionService,
			service.NewJourneyService,
			service.NewAdminService,
			// The leaderboard service doubles as the scheduler's cache warmer.
			func(lb service.LeaderboardService) scheduler.CacheWarmer { return lb },
			scheduler.NewLeaderboardScheduler,
		),

		fx.Provide(
			userctrl.NewChallengeController,
			userctrl.NewJourneyController,
			adminctrl.NewAdminController,
		),

		// Migrations must run before the scheduler warms the cache.
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(scheduler.RegisterLifecycle),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	engine *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	auth *middleware.Authenticator,
	challengeCtrl *userctrl.ChallengeController,
	journeyCtrl *userctrl.JourneyController,
	adminCtrl *adminctrl.AdminController,
) {
	router.RegisterRoutes(engine, auth, router.Controllers{
		Challenges: challengeCtrl,
		Journeys:   journeyCtrl,
		Admin:      adminCtrl,
	}, db)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("CodeDuel API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database auto-migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Error().Err(err).Msg("Failed to auto-migrate database")
		return err
	}
	log.Info().Msg("Database auto-migration completed successfully.")
	return nil
}
