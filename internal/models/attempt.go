package models

import "time"

// Attempt is one user's run through one quiz. Quiz settings that scoring and
// rendering need (pass threshold, time limit, category) are denormalized onto
// the attempt at creation so the hot paths read a single document.
type Attempt struct {
	ID             string     `bson:"_id,omitempty" json:"id"`
	UserID         string     `bson:"user_id" json:"user_id"`
	QuizID         string     `bson:"quiz_id" json:"quiz_id"`
	QuizTitle      string     `bson:"quiz_title" json:"quiz_title"`
	CategoryID     string     `bson:"category_id" json:"category_id"`
	CategoryName   string     `bson:"category_name" json:"category_name"`
	CategorySlug   string     `bson:"category_slug" json:"category_slug"`
	Difficulty     string     `bson:"difficulty" json:"difficulty"`
	PassPercentage int        `bson:"pass_percentage" json:"pass_percentage"`
	TimeLimit      int        `bson:"time_limit" json:"time_limit"`
	SessionToken   string     `bson:"session_token" json:"session_token"`
	Score          int        `bson:"score" json:"score"`
	TotalQuestions int        `bson:"total_questions" json:"total_questions"`
	Percentage     float64    `bson:"percentage" json:"percentage"`
	TimeTaken      int        `bson:"time_taken" json:"time_taken"`
	Completed      bool       `bson:"completed" json:"completed"`
	Passed         bool       `bson:"passed" json:"passed"`
	StartedAt      time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt    *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// TimeRemaining returns the advisory seconds left at the given instant. It is
// recomputed on each render, never stored.
func (a *Attempt) TimeRemaining(now time.Time) int {
	elapsed := int(now.Sub(a.StartedAt).Seconds())
	remaining := a.TimeLimit - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
