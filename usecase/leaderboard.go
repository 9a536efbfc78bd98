package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/progression"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	FilterAll   = "all"
	FilterTop10 = "top10"
	FilterTop3  = "top3"
)

type LeaderboardQuery struct {
	Limit  int
	Search string
	Filter string
}

type LeaderboardService struct {
	profiles   ProfileStore
	cache      LeaderboardCache
	totalTasks int
	maxLimit   int
	log        *utils.Logger
	tracer     trace.Tracer
	group      singleflight.Group
}

// NewLeaderboardService builds the service. cache may be nil.
func NewLeaderboardService(profiles ProfileStore, cache LeaderboardCache, cat *catalog.Catalog, maxLimit int, log *utils.Logger) *LeaderboardService {
	return &LeaderboardService{
		profiles:   profiles,
		cache:      cache,
		totalTasks: cat.TotalTasks(),
		maxLimit:   maxLimit,
		log:        log,
		tracer:     otel.Tracer("sprintworkshop/usecase/leaderboard"),
	}
}

// Top returns the first limit entries of the board. Ranks are positions in
// the full ordering. limit <= 0 returns the whole board.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	if limit < 0 {
		limit = 0
	}

	ctx, span := s.tracer.Start(ctx, "leaderboard.Top", trace.WithAttributes(attribute.Int("leaderboard.limit", limit)))
	defer span.End()

	// gen < 0 bypasses the cache for this call.
	gen := int64(-1)
	if s.cache != nil {
		g, err := s.cache.Generation(ctx)
		if err != nil {
			s.log.Warn("leaderboard cache generation read failed", "error", err)
		} else {
			gen = g
		}
	}

	if gen >= 0 {
		entries, hit, err := s.cache.Get(ctx, gen, limit)
		if err != nil {
			s.log.Warn("leaderboard cache read failed", "error", err)
		}
		utils.TrackCacheOperation("leaderboard", hit)
		if hit {
			return entries, nil
		}
	}

	key := strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(limit)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		profiles, err := s.profiles.QueryTopProfiles(ctx, limit)
		if err != nil {
			return nil, err
		}
		entries := s.rank(profiles)
		if gen >= 0 {
			if err := s.cache.Set(ctx, gen, limit, entries); err != nil {
				s.log.Warn("leaderboard cache write failed", "error", err)
			}
		}
		return entries, nil
	})
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return v.([]model.LeaderboardEntry), nil
}

// Search filters the full board by display name and rank band, then trims
// to q.Limit. Entries keep their rank on the full board.
func (s *LeaderboardService) Search(ctx context.Context, q LeaderboardQuery) ([]model.LeaderboardEntry, error) {
	maxRank := 0
	switch strings.ToLower(q.Filter) {
	case "", FilterAll:
	case FilterTop10:
		maxRank = 10
	case FilterTop3:
		maxRank = 3
	default:
		return nil, apperr.Validation("search leaderboard", fmt.Errorf("unknown filter %q", q.Filter))
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	if search == "" && maxRank == 0 {
		return s.Top(ctx, q.Limit)
	}

	board, err := s.Top(ctx, 0)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	out := make([]model.LeaderboardEntry, 0, limit)
	for _, e := range board {
		if maxRank > 0 && e.Rank > maxRank {
			break
		}
		if search != "" && !strings.Contains(strings.ToLower(e.DisplayName), search) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// Invalidate drops cached boards. Failures are logged; the cache expires on
// its own.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("leaderboard cache invalidation failed", "error", err)
	}
}

func (s *LeaderboardService) rank(profiles []*model.UserProfile) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		if p.IsGuest {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:           len(entries) + 1,
			UserID:         p.UserID,
			DisplayName:    p.DisplayName,
			Points:         p.Points,
			TasksCompleted: p.TasksCompleted,
			Percentage:     progression.Percentage(p.TasksCompleted, s.totalTasks),
		})
	}
	return entries
}
