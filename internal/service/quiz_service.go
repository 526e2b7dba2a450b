package service

import (
	"context"
	"fmt"
	"strings"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/event"
	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
	"intelliquiz-service/internal/provider"
)

// QuestionCountChoices are the batch sizes a quiz can be requested with.
var QuestionCountChoices = []int{5, 10, 15, 20}

type CategoryStore interface {
	FindAllActive(ctx context.Context) ([]models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type SubcategoryStore interface {
	FindByCategory(ctx context.Context, categoryID string) ([]models.Subcategory, error)
	FindBySlug(ctx context.Context, categoryID, slug string) (*models.Subcategory, error)
}

type QuizStore interface {
	FindMatching(ctx context.Context, categoryID, subcategoryID, difficulty string, questionCount int) (*models.Quiz, error)
	CreateWithQuestions(ctx context.Context, quiz *models.Quiz, questions []models.Question) error
}

// QuizService assembles quizzes: it reuses an existing matching quiz when one
// exists, otherwise generates questions through the provider and persists the
// quiz atomically.
type QuizService struct {
	Quizzes       QuizStore
	Categories    CategoryStore
	Subcategories SubcategoryStore
	Provider      provider.QuestionProvider
	Events        event.Publisher
	Log           *logger.Logger
}

func NewQuizService(
	quizzes QuizStore,
	categories CategoryStore,
	subcategories SubcategoryStore,
	questionProvider provider.QuestionProvider,
	events event.Publisher,
	log *logger.Logger,
) *QuizService {
	return &QuizService{
		Quizzes:       quizzes,
		Categories:    categories,
		Subcategories: subcategories,
		Provider:      questionProvider,
		Events:        events,
		Log:           log.With("service", "quiz"),
	}
}

type StartQuizInput struct {
	CategorySlug    string `json:"category_slug"`
	SubcategorySlug string `json:"subcategory_slug"`
	Difficulty      string `json:"difficulty"`
	NumQuestions    int    `json:"num_questions"`
}

func validateStartQuizInput(in StartQuizInput) error {
	if !models.ValidDifficulty(in.Difficulty) {
		return apperr.Validationf("invalid difficulty level %q", in.Difficulty)
	}
	for _, n := range QuestionCountChoices {
		if in.NumQuestions == n {
			return nil
		}
	}
	return apperr.Validationf("invalid number of questions %d", in.NumQuestions)
}

// GetOrCreateQuiz returns an existing active quiz matching the request, or
// builds a new one. The reuse path never touches the provider. Two identical
// concurrent requests can both miss and both create; that duplicate is
// accepted rather than serialized.
func (s *QuizService) GetOrCreateQuiz(ctx context.Context, userID string, in StartQuizInput) (*models.Quiz, error) {
	if err := validateStartQuizInput(in); err != nil {
		return nil, err
	}

	category, err := s.Categories.FindBySlug(ctx, in.CategorySlug)
	if err != nil {
		return nil, err
	}

	var subcategory *models.Subcategory
	subcategoryID := ""
	if in.SubcategorySlug != "" {
		subcategory, err = s.Subcategories.FindBySlug(ctx, category.ID, in.SubcategorySlug)
		if err != nil {
			return nil, err
		}
		subcategoryID = subcategory.ID
	}

	quiz, err := s.Quizzes.FindMatching(ctx, category.ID, subcategoryID, in.Difficulty, in.NumQuestions)
	if err == nil {
		s.Log.Info("reusing existing quiz", "quiz_id", quiz.ID, "title", quiz.Title)
		return quiz, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	return s.createQuizWithQuestions(ctx, userID, category, subcategory, in)
}

func (s *QuizService) createQuizWithQuestions(ctx context.Context, userID string, category *models.Category, subcategory *models.Subcategory, in StartQuizInput) (*models.Quiz, error) {
	req := provider.Request{
		Category:   category.Name,
		Difficulty: in.Difficulty,
		Count:      in.NumQuestions,
	}
	if subcategory != nil {
		req.Subcategory = subcategory.Name
	}

	s.Log.Info("generating questions", "topic", req.Topic(), "difficulty", in.Difficulty, "count", in.NumQuestions)
	generated, err := s.Provider.GenerateQuestions(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, apperr.Providerf("no questions were generated")
	}

	quiz := &models.Quiz{
		Title:          quizTitle(category, subcategory, in.Difficulty),
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		CategorySlug:   category.Slug,
		Difficulty:     in.Difficulty,
		TimeLimit:      models.TimeLimitFor(in.Difficulty, in.NumQuestions),
		PassPercentage: models.PassPercentageFor(in.Difficulty),
		QuestionCount:  len(generated),
		IsActive:       true,
		CreatedBy:      userID,
	}
	if subcategory != nil {
		quiz.SubcategoryID = subcategory.ID
		quiz.SubcategoryName = subcategory.Name
	}

	questions := make([]models.Question, 0, len(generated))
	for i, g := range generated {
		questions = append(questions, models.Question{
			Text:          g.Text,
			OptionA:       g.Options["A"],
			OptionB:       g.Options["B"],
			OptionC:       g.Options["C"],
			OptionD:       g.Options["D"],
			CorrectAnswer: g.CorrectAnswer,
			Explanation:   g.Explanation,
			Order:         i + 1,
		})
	}

	if err := s.Quizzes.CreateWithQuestions(ctx, quiz, questions); err != nil {
		return nil, err
	}

	s.Log.Info("created quiz", "quiz_id", quiz.ID, "title", quiz.Title, "questions", len(questions))
	if err := s.Events.Publish(event.QuizGenerated, map[string]interface{}{
		"quiz_id":    quiz.ID,
		"category":   quiz.CategorySlug,
		"difficulty": quiz.Difficulty,
		"questions":  len(questions),
	}); err != nil {
		s.Log.Warn("failed to publish quiz.generated", "error", err)
	}
	return quiz, nil
}

func quizTitle(category *models.Category, subcategory *models.Subcategory, difficulty string) string {
	title := category.Name
	if subcategory != nil {
		title += " - " + subcategory.Name
	}
	return fmt.Sprintf("%s (%s)", title, capitalize(difficulty))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
