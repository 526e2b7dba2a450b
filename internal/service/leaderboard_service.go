package service

import (
	"context"
	"sort"
	"time"

	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
)

type LeaderboardUserStore interface {
	FindOptedIn(ctx context.Context) (map[string]string, error)
}

type LeaderboardAttemptStore interface {
	LeaderboardRows(ctx context.Context, userIDs []string, since time.Time, categorySlug string) ([]models.LeaderboardRow, error)
}

// LeaderboardService ranks opted-in users by their average percentage over
// completed attempts. Ties break on quiz volume.
type LeaderboardService struct {
	Users      LeaderboardUserStore
	Attempts   LeaderboardAttemptStore
	Categories CategoryStore
	Log        *logger.Logger
}

func NewLeaderboardService(users LeaderboardUserStore, attempts LeaderboardAttemptStore, categories CategoryStore, log *logger.Logger) *LeaderboardService {
	return &LeaderboardService{
		Users:      users,
		Attempts:   attempts,
		Categories: categories,
		Log:        log.With("service", "leaderboard"),
	}
}

const leaderboardSize = 50

// windowSince translates a named window into its cutoff instant. Unknown or
// empty names mean all-time, reported as the zero time.
func windowSince(window string, now time.Time) time.Time {
	switch window {
	case "weekly":
		return now.AddDate(0, 0, -7)
	case "monthly":
		return now.AddDate(0, 0, -30)
	default:
		return time.Time{}
	}
}

type LeaderboardView struct {
	Window   string                  `json:"window"`
	Category string                  `json:"category,omitempty"`
	Entries  []models.LeaderboardRow `json:"entries"`
	OwnRank  int                     `json:"own_rank,omitempty"`
	OwnEntry *models.LeaderboardRow  `json:"own_entry,omitempty"`
}

// Top builds the global leaderboard for the given window. The requesting
// user's own rank is reported even when they fall outside the page.
func (s *LeaderboardService) Top(ctx context.Context, userID, window string) (*LeaderboardView, error) {
	return s.build(ctx, userID, window, "")
}

// TopForCategory is Top restricted to attempts in one category. The slug
// must name an active category; an unknown one is a not-found, not an empty
// board.
func (s *LeaderboardService) TopForCategory(ctx context.Context, userID, window, categorySlug string) (*LeaderboardView, error) {
	category, err := s.Categories.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, userID, window, category.Slug)
}

func (s *LeaderboardService) build(ctx context.Context, userID, window, categorySlug string) (*LeaderboardView, error) {
	optedIn, err := s.Users.FindOptedIn(ctx)
	if err != nil {
		return nil, err
	}

	view := &LeaderboardView{
		Window:   normalizeWindow(window),
		Category: categorySlug,
		Entries:  []models.LeaderboardRow{},
	}
	if len(optedIn) == 0 {
		return view, nil
	}

	userIDs := make([]string, 0, len(optedIn))
	for id := range optedIn {
		userIDs = append(userIDs, id)
	}

	rows, err := s.Attempts.LeaderboardRows(ctx, userIDs, windowSince(window, time.Now().UTC()), categorySlug)
	if err != nil {
		return nil, err
	}

	rankRows(rows, optedIn)

	for i := range rows {
		if rows[i].UserID == userID {
			view.OwnRank = rows[i].Rank
			entry := rows[i]
			view.OwnEntry = &entry
			break
		}
	}

	if len(rows) > leaderboardSize {
		rows = rows[:leaderboardSize]
	}
	view.Entries = rows
	return view, nil
}

// rankRows orders rows best-first and assigns 1-based ranks. Ordering is
// settled here, not in the aggregation, so the tie-break has one home.
func rankRows(rows []models.LeaderboardRow, usernames map[string]string) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AvgPercentage != rows[j].AvgPercentage {
			return rows[i].AvgPercentage > rows[j].AvgPercentage
		}
		return rows[i].TotalQuizzes > rows[j].TotalQuizzes
	})
	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Username = usernames[rows[i].UserID]
	}
}

func normalizeWindow(window string) string {
	switch window {
	case "weekly", "monthly":
		return window
	default:
		return "all"
	}
}
