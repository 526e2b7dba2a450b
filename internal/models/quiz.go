package models

import "time"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// SecondsPerQuestion is the per-question time budget for each difficulty.
var SecondsPerQuestion = map[string]int{
	DifficultyEasy:   30,
	DifficultyMedium: 45,
	DifficultyHard:   60,
}

// PassPercentages is the pass threshold for each difficulty.
var PassPercentages = map[string]int{
	DifficultyEasy:   60,
	DifficultyMedium: 70,
	DifficultyHard:   75,
}

const defaultPassPercentage = 70

type Quiz struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	Title           string    `bson:"title" json:"title"`
	CategoryID      string    `bson:"category_id" json:"category_id"`
	CategoryName    string    `bson:"category_name" json:"category_name"`
	CategorySlug    string    `bson:"category_slug" json:"category_slug"`
	SubcategoryID   string    `bson:"subcategory_id,omitempty" json:"subcategory_id,omitempty"`
	SubcategoryName string    `bson:"subcategory_name,omitempty" json:"subcategory_name,omitempty"`
	Difficulty      string    `bson:"difficulty" json:"difficulty"`
	Description     string    `bson:"description" json:"description"`
	TimeLimit       int       `bson:"time_limit" json:"time_limit"`
	PassPercentage  int       `bson:"pass_percentage" json:"pass_percentage"`
	QuestionCount   int       `bson:"question_count" json:"question_count"`
	IsActive        bool      `bson:"is_active" json:"is_active"`
	CreatedBy       string    `bson:"created_by" json:"created_by"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidDifficulty reports whether d is one of the supported difficulty levels.
func ValidDifficulty(d string) bool {
	_, ok := SecondsPerQuestion[d]
	return ok
}

// TimeLimitFor derives the quiz time limit in seconds from the question count
// and the per-difficulty time budget.
func TimeLimitFor(difficulty string, numQuestions int) int {
	perQuestion, ok := SecondsPerQuestion[difficulty]
	if !ok {
		perQuestion = SecondsPerQuestion[DifficultyMedium]
	}
	return numQuestions * perQuestion
}

// PassPercentageFor returns the pass threshold for a difficulty, falling back
// to the default for unknown values.
func PassPercentageFor(difficulty string) int {
	if pct, ok := PassPercentages[difficulty]; ok {
		return pct
	}
	return defaultPassPercentage
}
