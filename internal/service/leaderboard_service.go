package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/cache"
	"github.com/lshigami/codeduel/internal/dto"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/lshigami/codeduel/internal/repository"
	"github.com/rs/zerolog/log"
)

type TimeFrame string

const (
	TimeFrameAll   TimeFrame = "all"
	TimeFrameWeek  TimeFrame = "week"
	TimeFrameMonth TimeFrame = "month"
)

// LeaderboardGlobal is the board type covering every challenge.
const LeaderboardGlobal = "global"

const leaderboardKeyPrefix = "leaderboard:"

func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(strings.ToLower(strings.TrimSpace(s))) {
	case "", TimeFrameAll:
		return TimeFrameAll, nil
	case TimeFrameWeek:
		return TimeFrameWeek, nil
	case TimeFrameMonth:
		return TimeFrameMonth, nil
	}
	return "", fmt.Errorf("unknown time frame %q: %w", s, apperror.ErrValidation)
}

// Window is the rolling window length, zero for all time.
func (tf TimeFrame) Window() time.Duration {
	switch tf {
	case TimeFrameWeek:
		return 7 * 24 * time.Hour
	case TimeFrameMonth:
		return 30 * 24 * time.Hour
	}
	return 0
}

// ParseBoardType normalizes a leaderboard type; empty means global.
func ParseBoardType(s string) (string, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" || t == LeaderboardGlobal {
		return LeaderboardGlobal, nil
	}
	if !model.IsChallengeCategory(t) {
		return "", fmt.Errorf("unknown challenge type %q: %w", s, apperror.ErrValidation)
	}
	return t, nil
}

type LeaderboardService interface {
	GlobalRank(ctx context.Context, userID string) (dto.UserRankDTO, error)
	TypeRank(ctx context.Context, userID, typeName string, tf TimeFrame) (dto.UserRankDTO, error)
	Leaderboard(ctx context.Context, typeName, timeFrame, callerID string) (*dto.LeaderboardDTO, error)
	ChallengeLeaderboard(ctx context.Context, challengeID string) ([]dto.LeaderboardEntryDTO, error)
	Invalidate(ctx context.Context)
	WarmCache(ctx context.Context) error
}

type leaderboardService struct {
	statsRepo      repository.StatsRepository
	cache          cache.Cache
	ttl            time.Duration
	topLimit       int
	challengeLimit int
	now            func() time.Time
	// generation is bumped on every Invalidate; reads that started in an
	// older generation do not write back.
	generation atomic.Uint64
}

func NewLeaderboardService(statsRepo repository.StatsRepository, c cache.Cache, cfg *config.Config) LeaderboardService {
	return &leaderboardService{
		statsRepo:      statsRepo,
		cache:          c,
		ttl:            cfg.Leaderboard.CacheTTL,
		topLimit:       cfg.Leaderboard.TopLimit,
		challengeLimit: cfg.Leaderboard.ChallengeLimit,
		now:            time.Now,
	}
}

// GlobalRank ranks the user by challenges won across all time.
func (s *leaderboardService) GlobalRank(ctx context.Context, userID string) (dto.UserRankDTO, error) {
	stats, err := s.statsRepo.GlobalStats(ctx, userID)
	if err != nil {
		return dto.UserRankDTO{}, fmt.Errorf("load global stats: %w", err)
	}
	if stats == nil {
		return dto.UserRankDTO{}, nil
	}
	ahead, err := s.statsRepo.CountGlobalAhead(ctx, stats.ChallengesWon)
	if err != nil {
		return dto.UserRankDTO{}, fmt.Errorf("count global rank: %w", err)
	}
	rank := int(ahead) + 1
	return dto.UserRankDTO{
		Rank: &rank,
		Stats: &dto.RankStatsDTO{
			Username: stats.Username,
			Wins:     stats.ChallengesWon,
			Attempts: stats.TotalChallengesAttempted,
		},
	}, nil
}

// TypeRank ranks the user over attempts in a type and time window. An empty
// or global type with an all-time window is the same as GlobalRank.
func (s *leaderboardService) TypeRank(ctx context.Context, userID, typeName string, tf TimeFrame) (dto.UserRankDTO, error) {
	boardType, err := ParseBoardType(typeName)
	if err != nil {
		return dto.UserRankDTO{}, err
	}
	scope := scopeType(boardType)
	if scope == "" && tf.Window() == 0 {
		return s.GlobalRank(ctx, userID)
	}
	since := repository.SinceWindow(s.now(), tf.Window())
	row, err := s.statsRepo.TypeScopedStats(ctx, scope, since, userID)
	if err != nil {
		return dto.UserRankDTO{}, fmt.Errorf("load type stats: %w", err)
	}
	if row == nil {
		return dto.UserRankDTO{}, nil
	}
	ahead, err := s.statsRepo.CountTypeScopedAhead(ctx, scope, since, row.Wins)
	if err != nil {
		return dto.UserRankDTO{}, fmt.Errorf("count type rank: %w", err)
	}
	rank := int(ahead) + 1
	return dto.UserRankDTO{
		Rank:  &rank,
		Stats: &dto.RankStatsDTO{Username: row.Username, Wins: row.Wins, Attempts: row.Attempts},
	}, nil
}

func (s *leaderboardService) Leaderboard(ctx context.Context, typeName, timeFrame, callerID string) (*dto.LeaderboardDTO, error) {
	boardType, err := ParseBoardType(typeName)
	if err != nil {
		return nil, err
	}
	tf, err := ParseTimeFrame(timeFrame)
	if err != nil {
		return nil, err
	}

	entries, err := s.topEntries(ctx, boardType, tf)
	if err != nil {
		return nil, err
	}

	resp := &dto.LeaderboardDTO{Type: boardType, TimeFrame: string(tf), Entries: entries}
	if callerID != "" {
		resp.UserRank, err = s.TypeRank(ctx, callerID, boardType, tf)
		if err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (s *leaderboardService) ChallengeLeaderboard(ctx context.Context, challengeID string) ([]dto.LeaderboardEntryDTO, error) {
	rows, err := s.statsRepo.ChallengeTop(ctx, challengeID, s.challengeLimit)
	if err != nil {
		return nil, fmt.Errorf("load challenge leaderboard: %w", err)
	}
	entries := make([]dto.LeaderboardEntryDTO, len(rows))
	for i, r := range rows {
		entries[i] = dto.LeaderboardEntryDTO{UserID: r.UserID, Username: r.Username, Wins: r.Wins, Attempts: r.Attempts}
	}
	return rankEntries(entries), nil
}

// Invalidate drops every cached board. Failures only cost freshness.
func (s *leaderboardService) Invalidate(ctx context.Context) {
	s.generation.Add(1)
	if err := s.cache.DeletePrefix(ctx, leaderboardKeyPrefix); err != nil {
		log.Warn().Err(err).Msg("Invalidate: failed to clear leaderboard cache")
	}
}

// WarmCache recomputes the all-time global board into the cache.
func (s *leaderboardService) WarmCache(ctx context.Context) error {
	gen := s.generation.Load()
	entries, err := s.loadEntries(ctx, LeaderboardGlobal, TimeFrameAll)
	if err != nil {
		return err
	}
	s.store(ctx, cacheKey(LeaderboardGlobal, TimeFrameAll), entries, gen)
	log.Debug().Int("entries", len(entries)).Msg("WarmCache: global leaderboard refreshed")
	return nil
}

func (s *leaderboardService) topEntries(ctx context.Context, boardType string, tf TimeFrame) ([]dto.LeaderboardEntryDTO, error) {
	key := cacheKey(boardType, tf)
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("topEntries: cache read failed, using database")
	}
	if ok {
		var cached []dto.LeaderboardEntryDTO
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		log.Warn().Str("key", key).Msg("topEntries: discarding undecodable cache entry")
	}

	gen := s.generation.Load()
	entries, err := s.loadEntries(ctx, boardType, tf)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, entries, gen)
	return entries, nil
}

func (s *leaderboardService) loadEntries(ctx context.Context, boardType string, tf TimeFrame) ([]dto.LeaderboardEntryDTO, error) {
	scope := scopeType(boardType)
	var entries []dto.LeaderboardEntryDTO
	if scope == "" && tf.Window() == 0 {
		rows, err := s.statsRepo.GlobalTop(ctx, s.topLimit)
		if err != nil {
			return nil, fmt.Errorf("load global leaderboard: %w", err)
		}
		entries = make([]dto.LeaderboardEntryDTO, len(rows))
		for i, r := range rows {
			entries[i] = dto.LeaderboardEntryDTO{
				UserID:   r.UserID,
				Username: r.Username,
				Wins:     r.ChallengesWon,
				Attempts: r.TotalChallengesAttempted,
			}
		}
	} else {
		rows, err := s.statsRepo.TypeScopedTop(ctx, scope, repository.SinceWindow(s.now(), tf.Window()), s.topLimit)
		if err != nil {
			return nil, fmt.Errorf("load %s leaderboard: %w", boardType, err)
		}
		entries = make([]dto.LeaderboardEntryDTO, len(rows))
		for i, r := range rows {
			entries[i] = dto.LeaderboardEntryDTO{UserID: r.UserID, Username: r.Username, Wins: r.Wins, Attempts: r.Attempts}
		}
	}
	return rankEntries(entries), nil
}

// store caches entries read during generation gen, unless an invalidation
// happened since. The check is per process; other replicas rely on the TTL.
func (s *leaderboardService) store(ctx context.Context, key string, entries []dto.LeaderboardEntryDTO, gen uint64) {
	if s.generation.Load() != gen {
		log.Debug().Str("key", key).Msg("store: skipping stale leaderboard")
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("store: failed to encode leaderboard")
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("store: cache write failed")
	}
}

// rankEntries assigns 1 + the number of entries with strictly more wins.
// Entries must already be sorted by wins descending.
func rankEntries(entries []dto.LeaderboardEntryDTO) []dto.LeaderboardEntryDTO {
	for i := range entries {
		if i > 0 && entries[i].Wins == entries[i-1].Wins {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}

func scopeType(boardType string) string {
	if boardType == LeaderboardGlobal {
		return ""
	}
	return boardType
}

func cacheKey(boardType string, tf TimeFrame) string {
	if boardType == LeaderboardGlobal && tf == TimeFrameAll {
		return leaderboardKeyPrefix + LeaderboardGlobal
	}
	return leaderboardKeyPrefix + boardType + ":" + string(tf)
}
