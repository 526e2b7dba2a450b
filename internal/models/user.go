package models

import "time"

type User struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	Username            string    `bson:"username" json:"username"`
	Email               string    `bson:"email" json:"email"`
	PasswordHash        string    `bson:"password_hash" json:"-"`
	Bio                 string    `bson:"bio" json:"bio"`
	PreferredDifficulty string    `bson:"preferred_difficulty" json:"preferred_difficulty"`
	ShowOnLeaderboard   bool      `bson:"show_on_leaderboard" json:"show_on_leaderboard"`
	EmailNotifications  bool      `bson:"email_notifications" json:"email_notifications"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at" json:"updated_at"`
}

// LeaderboardRow is one user's aggregate over qualifying completed attempts.
// Rows are produced by the attempts aggregation and joined with usernames in
// the leaderboard service.
type LeaderboardRow struct {
	UserID        string  `bson:"_id" json:"user_id"`
	Username      string  `bson:"-" json:"username"`
	Rank          int     `bson:"-" json:"rank"`
	TotalQuizzes  int     `bson:"total_quizzes" json:"total_quizzes"`
	AvgPercentage float64 `bson:"avg_percentage" json:"avg_percentage"`
	TotalScore    int     `bson:"total_score" json:"total_score"`
	PassedQuizzes int     `bson:"passed_quizzes" json:"passed_quizzes"`
}
