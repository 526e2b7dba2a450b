package service

import "intelliquiz-service/internal/models"

// ScoreSummary is an attempt's score derived purely from its answer set.
type ScoreSummary struct {
	Score          int     `json:"score"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     float64 `json:"percentage"`
	Passed         bool    `json:"passed"`
}

// Summarize recomputes the score from the answers. The total is the count
// of actual answers, not the quiz's question count, so skipped questions
// simply do not take part. With no answers the percentage is 0 and the
// attempt cannot pass, regardless of threshold.
func Summarize(answers []models.Answer, passPercentage int) ScoreSummary {
	summary := ScoreSummary{TotalQuestions: len(answers)}
	for _, a := range answers {
		if a.IsCorrect {
			summary.Score++
		}
	}
	if summary.TotalQuestions > 0 {
		summary.Percentage = float64(summary.Score) / float64(summary.TotalQuestions) * 100
		summary.Passed = summary.Percentage >= float64(passPercentage)
	}
	return summary
}

var gradeLadder = []struct {
	min   float64
	grade string
}{
	{95, "A+"},
	{90, "A"},
	{85, "A-"},
	{80, "B+"},
	{75, "B"},
	{70, "B-"},
	{65, "C+"},
	{60, "C"},
	{55, "C-"},
	{50, "D"},
}

// Grade maps a percentage to its letter grade. Presentation only; pass/fail
// always comes from the percentage against the quiz threshold.
func Grade(percentage float64) string {
	for _, step := range gradeLadder {
		if percentage >= step.min {
			return step.grade
		}
	}
	return "F"
}
