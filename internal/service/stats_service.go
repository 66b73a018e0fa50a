package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sourcery-io/sourcery/internal/database"
	"github.com/sourcery-io/sourcery/internal/logger"
	"github.com/sourcery-io/sourcery/internal/model"
	"github.com/sourcery-io/sourcery/internal/repository"
)

const (
	dashboardCacheTTL  = 60 * time.Second
	dashboardDailyDays = 7
)

// StatsService assembles dashboard statistics and records email events
type StatsService struct {
	statsRepo        *repository.StatsRepository
	contactRepo      *repository.ContactRepository
	templateRepo     *repository.TemplateRepository
	sequenceRepo     *repository.SequenceRepository
	subscriptionRepo *repository.SubscriptionRepository
	rdb              *database.Redis
	log              *logger.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(
	statsRepo *repository.StatsRepository,
	contactRepo *repository.ContactRepository,
	templateRepo *repository.TemplateRepository,
	sequenceRepo *repository.SequenceRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	rdb *database.Redis,
	log *logger.Logger,
) *StatsService {
	return &StatsService{
		statsRepo:        statsRepo,
		contactRepo:      contactRepo,
		templateRepo:     templateRepo,
		sequenceRepo:     sequenceRepo,
		subscriptionRepo: subscriptionRepo,
		rdb:              rdb,
		log:              log.WithComponent("stats_service"),
	}
}

// Dashboard returns the aggregate dashboard view for a user. Results are
// cached briefly in Redis since the dashboard polls.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*model.DashboardStats, error) {
	cacheKey := dashboardCacheKey(userID)

	if s.rdb != nil {
		if raw, err := s.rdb.GetString(ctx, cacheKey); err == nil {
			var cached model.DashboardStats
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	stats, err := s.buildDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.rdb.SetWithTTL(ctx, cacheKey, raw, dashboardCacheTTL); err != nil {
				s.log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}

	return stats, nil
}

func (s *StatsService) buildDashboard(ctx context.Context, userID string) (*model.DashboardStats, error) {
	contacts, err := s.contactRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	templates, err := s.templateRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count templates: %w", err)
	}
	sequences, err := s.sequenceRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count sequences: %w", err)
	}

	quota := 0
	sub, err := s.subscriptionRepo.GetByUser(ctx, userID)
	switch {
	case err == nil:
		quota = sub.QuotaRemaining()
	case errors.Is(err, repository.ErrNotFound):
		// User without a subscription row sees zero quota
	default:
		return nil, fmt.Errorf("load subscription: %w", err)
	}

	summary, err := s.statsRepo.Summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load stats summary: %w", err)
	}

	since := time.Now().AddDate(0, 0, -(dashboardDailyDays - 1))
	daily, err := s.statsRepo.Daily(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("load daily stats: %w", err)
	}

	return &model.DashboardStats{
		TotalContacts:  contacts,
		TotalTemplates: templates,
		TotalSequences: sequences,
		EmailQuota:     quota,
		EmailStats:     *summary,
		DailyStats:     fillMissingDays(daily, since, dashboardDailyDays),
	}, nil
}

// RecordEvent stores one email event and invalidates the dashboard cache
func (s *StatsService) RecordEvent(ctx context.Context, userID string, event model.EmailEvent, sequenceID, contactID *string) error {
	switch event {
	case model.EmailEventSent, model.EmailEventBounced, model.EmailEventOpened, model.EmailEventResponded:
	default:
		return fmt.Errorf("%w: unknown event %q", repository.ErrInvalidInput, event)
	}

	stat := &model.EmailStat{
		ID:         generateID("stat"),
		UserID:     userID,
		SequenceID: sequenceID,
		ContactID:  contactID,
		Status:     event,
		CreatedAt:  time.Now(),
	}
	if err := s.statsRepo.Record(ctx, stat); err != nil {
		return err
	}

	s.InvalidateDashboard(ctx, userID)
	return nil
}

// InvalidateDashboard drops the cached dashboard for a user
func (s *StatsService) InvalidateDashboard(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Delete(ctx, dashboardCacheKey(userID)); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache invalidation failed")
	}
}

func dashboardCacheKey(userID string) string {
	return "dashboard:stats:" + userID
}

// fillMissingDays pads the daily series so every day in the window appears,
// zero-filled where no events were recorded.
func fillMissingDays(daily []*model.DailyStat, since time.Time, days int) []model.DailyStat {
	byDate := make(map[string]*model.DailyStat, len(daily))
	for _, d := range daily {
		byDate[d.Date] = d
	}

	out := make([]model.DailyStat, 0, days)
	for i := 0; i < days; i++ {
		date := since.AddDate(0, 0, i).Format("Jan 02")
		if d, ok := byDate[date]; ok {
			out = append(out, *d)
		} else {
			out = append(out, model.DailyStat{Date: date})
		}
	}
	return out
}
