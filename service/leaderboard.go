package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Stasoks/HR-Site/models"
)

// LeaderboardService computes the public rankings. When a Redis client
// is configured each board is cached for a short TTL, a nil client
// falls through to the database on every call.
type LeaderboardService struct {
	db       *gorm.DB
	redis    *redis.Client
	cacheTTL time.Duration
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{db: db, redis: rdb, cacheTTL: time.Minute}
}

// LeaderboardEntry is one ranked row. Only the board-relevant metric is
// guaranteed to be meaningful, the rest is context for display.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	UserID         uint    `json:"user_id"`
	Name           string  `json:"name"`
	Level          string  `json:"level"`
	Balance        float64 `json:"balance"`
	TasksCompleted int64   `json:"tasks_completed"`
	ApprovalRate   float64 `json:"approval_rate"`
}

const defaultBoardSize = 10

func boardLimit(limit int) int {
	if limit < 1 || limit > 100 {
		return defaultBoardSize
	}
	return limit
}

// TopEarners ranks by balance, highest first, older accounts winning
// ties.
func (s *LeaderboardService) TopEarners(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = boardLimit(limit)
	return s.cached(ctx, fmt.Sprintf("leaderboard:earners:%d", limit), func() ([]LeaderboardEntry, error) {
		return s.rank("balance DESC, id ASC", nil, limit)
	})
}

// MostProductive ranks by completed task count.
func (s *LeaderboardService) MostProductive(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = boardLimit(limit)
	return s.cached(ctx, fmt.Sprintf("leaderboard:productive:%d", limit), func() ([]LeaderboardEntry, error) {
		return s.rank("tasks_completed DESC, id ASC", nil, limit)
	})
}

// QualityLeaders ranks by approval rate. Users with no reviewed work
// and no seeded rate have an undefined rate and are excluded rather
// than ranked at zero.
func (s *LeaderboardService) QualityLeaders(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = boardLimit(limit)
	return s.cached(ctx, fmt.Sprintf("leaderboard:quality:%d", limit), func() ([]LeaderboardEntry, error) {
		defined := func(q *gorm.DB) *gorm.DB {
			return q.Where("approval_rate > 0 OR id IN (?)",
				s.db.Model(&models.Assignment{}).
					Select("user_id").
					Where("status IN ?", []models.AssignmentStatus{models.StatusApproved, models.StatusRejected}))
		}
		return s.rank("approval_rate DESC, id ASC", defined, limit)
	})
}

// Awards bundles all three boards for the landing page.
type Awards struct {
	TopEarners     []LeaderboardEntry `json:"top_earners"`
	MostProductive []LeaderboardEntry `json:"most_productive"`
	QualityLeaders []LeaderboardEntry `json:"quality_leaders"`
}

func (s *LeaderboardService) Awards(ctx context.Context, limit int) (*Awards, error) {
	earners, err := s.TopEarners(ctx, limit)
	if err != nil {
		return nil, err
	}
	productive, err := s.MostProductive(ctx, limit)
	if err != nil {
		return nil, err
	}
	quality, err := s.QualityLeaders(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &Awards{TopEarners: earners, MostProductive: productive, QualityLeaders: quality}, nil
}

func (s *LeaderboardService) rank(order string, scope func(*gorm.DB) *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	query := s.db.Model(&models.User{}).Where("is_admin = ?", false)
	if scope != nil {
		query = scope(query)
	}

	var users []models.User
	if err := query.Order(order).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:           i + 1,
			UserID:         u.ID,
			Name:           u.Name(),
			Level:          string(u.Level),
			Balance:        u.Balance,
			TasksCompleted: u.TasksCompleted,
			ApprovalRate:   u.ApprovalRate,
		})
	}
	return entries, nil
}

// cached serves from Redis when possible. Cache failures are logged and
// the board is computed from the database, never surfaced to the
// caller.
func (s *LeaderboardService) cached(ctx context.Context, key string, compute func() ([]LeaderboardEntry, error)) ([]LeaderboardEntry, error) {
	if s.redis != nil {
		raw, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(raw), &entries); err == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			log.Printf("[LEADERBOARD] cache read failed for %s: %v", key, err)
		}
	}

	entries, err := compute()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.redis.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
				log.Printf("[LEADERBOARD] cache write failed for %s: %v", key, err)
			}
		}
	}
	return entries, nil
}
