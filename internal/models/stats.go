package models

// UserStats are one user's rollups over completed attempts.
type UserStats struct {
	TotalQuizzes      int     `bson:"total_quizzes" json:"total_quizzes"`
	PassedQuizzes     int     `bson:"passed_quizzes" json:"passed_quizzes"`
	AveragePercentage float64 `bson:"avg_percentage" json:"average_percentage"`
	TotalScore        int     `bson:"total_score" json:"total_score"`
}

// GroupStat is a per-category or per-difficulty breakdown row.
type GroupStat struct {
	Key           string  `bson:"_id" json:"key"`
	TotalAttempts int     `bson:"total_attempts" json:"total_attempts"`
	AvgPercentage float64 `bson:"avg_percentage" json:"average_percentage"`
	Passed        int     `bson:"passed" json:"passed"`
}
