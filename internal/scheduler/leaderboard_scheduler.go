package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/lshigami/codeduel/config"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

const warmTimeout = 30 * time.Second

// CacheWarmer recomputes cached leaderboards.
type CacheWarmer interface {
	WarmCache(ctx context.Context) error
}

// NewLeaderboardScheduler registers the periodic leaderboard warm-up job.
// The scheduler is not started; RegisterLifecycle ties it to the app.
func NewLeaderboardScheduler(warmer CacheWarmer, cfg *config.Config) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	interval := cfg.Leaderboard.WarmInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
			defer cancel()
			if err := warmer.WarmCache(ctx); err != nil {
				log.Error().Err(err).Msg("[Scheduler] leaderboard warm-up failed")
			}
		}),
		gocron.WithName("leaderboard-warmup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("register leaderboard job: %w", err)
	}
	return s, nil
}

func RegisterLifecycle(lc fx.Lifecycle, s gocron.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.Start()
			log.Info().Msg("Leaderboard scheduler started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Leaderboard scheduler stopping...")
			return s.Shutdown()
		},
	})
}
