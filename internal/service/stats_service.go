package service

import (
	"context"

	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
)

type StatsStore interface {
	UserStats(ctx context.Context, userID string) (*models.UserStats, error)
	CategoryStats(ctx context.Context, userID string) ([]models.GroupStat, error)
	DifficultyStats(ctx context.Context, userID string) ([]models.GroupStat, error)
	FindCompletedByUser(ctx context.Context, userID string, limit int) ([]models.Attempt, error)
}

// StatsService serves the dashboard, statistics and history views over a
// user's completed attempts.
type StatsService struct {
	Attempts StatsStore
	Log      *logger.Logger
}

func NewStatsService(attempts StatsStore, log *logger.Logger) *StatsService {
	return &StatsService{Attempts: attempts, Log: log.With("service", "stats")}
}

const (
	dashboardRecentLimit = 5
	historyLimit         = 50
)

type DashboardView struct {
	Stats          *models.UserStats `json:"stats"`
	RecentAttempts []models.Attempt  `json:"recent_attempts"`
}

// Dashboard is the landing summary: headline rollups plus the last few
// completed attempts.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*DashboardView, error) {
	stats, err := s.Attempts.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.Attempts.FindCompletedByUser(ctx, userID, dashboardRecentLimit)
	if err != nil {
		return nil, err
	}
	return &DashboardView{Stats: stats, RecentAttempts: recent}, nil
}

type StatisticsView struct {
	Stats        *models.UserStats  `json:"stats"`
	ByCategory   []models.GroupStat `json:"by_category"`
	ByDifficulty []models.GroupStat `json:"by_difficulty"`
	PassRate     float64            `json:"pass_rate"`
}

// Statistics is the detailed breakdown: overall rollups plus per-category
// and per-difficulty groupings.
func (s *StatsService) Statistics(ctx context.Context, userID string) (*StatisticsView, error) {
	stats, err := s.Attempts.UserStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.Attempts.CategoryStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	byDifficulty, err := s.Attempts.DifficultyStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &StatisticsView{
		Stats:        stats,
		ByCategory:   byCategory,
		ByDifficulty: byDifficulty,
	}
	if stats.TotalQuizzes > 0 {
		view.PassRate = float64(stats.PassedQuizzes) / float64(stats.TotalQuizzes) * 100
	}
	return view, nil
}

// History lists the user's completed attempts, most recent first.
func (s *StatsService) History(ctx context.Context, userID string) ([]models.Attempt, error) {
	attempts, err := s.Attempts.FindCompletedByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	return attempts, nil
}
