package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/event"
	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
	"intelliquiz-service/internal/provider"
)

type AttemptStore interface {
	Create(ctx context.Context, attempt *models.Attempt) error
	FindByID(ctx context.Context, id string) (*models.Attempt, error)
	Complete(ctx context.Context, attempt *models.Attempt) error
}

type AnswerStore interface {
	Upsert(ctx context.Context, answer *models.Answer) error
	Find(ctx context.Context, attemptID, questionID string) (*models.Answer, error)
	FindByAttempt(ctx context.Context, attemptID string) ([]models.Answer, error)
	SetExplanation(ctx context.Context, attemptID, questionID, explanation string) error
}

type QuestionStore interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
	FindByQuiz(ctx context.Context, quizID string) ([]models.Question, error)
}

// AttemptService drives the attempt lifecycle: start, answer, submit,
// results. One attempt row per take; answers upsert so re-answering a
// question replaces the earlier choice.
type AttemptService struct {
	Attempts  AttemptStore
	Answers   AnswerStore
	Questions QuestionStore
	Provider  provider.QuestionProvider
	Events    event.Publisher
	Log       *logger.Logger
}

func NewAttemptService(
	attempts AttemptStore,
	answers AnswerStore,
	questions QuestionStore,
	questionProvider provider.QuestionProvider,
	events event.Publisher,
	log *logger.Logger,
) *AttemptService {
	return &AttemptService{
		Attempts:  attempts,
		Answers:   answers,
		Questions: questions,
		Provider:  questionProvider,
		Events:    events,
		Log:       log.With("service", "attempt"),
	}
}

// Start opens a fresh attempt against the quiz. Quiz parameters are copied
// onto the attempt so later reads and aggregations never join back to the
// quiz document.
func (s *AttemptService) Start(ctx context.Context, userID string, quiz *models.Quiz) (*models.Attempt, error) {
	attempt := &models.Attempt{
		UserID:         userID,
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		CategoryID:     quiz.CategoryID,
		CategoryName:   quiz.CategoryName,
		CategorySlug:   quiz.CategorySlug,
		Difficulty:     quiz.Difficulty,
		PassPercentage: quiz.PassPercentage,
		TimeLimit:      quiz.TimeLimit,
		SessionToken:   uuid.NewString(),
		TotalQuestions: quiz.QuestionCount,
		StartedAt:      time.Now().UTC(),
	}
	if err := s.Attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	s.Log.Info("attempt started", "attempt_id", attempt.ID, "quiz_id", quiz.ID, "user_id", userID)
	if err := s.Events.Publish(event.AttemptStarted, map[string]interface{}{
		"attempt_id": attempt.ID,
		"quiz_id":    quiz.ID,
		"user_id":    userID,
	}); err != nil {
		s.Log.Warn("failed to publish attempt.started", "error", err)
	}
	return attempt, nil
}

// ownedAttempt loads the attempt and hides it from anyone but its owner.
func (s *AttemptService) ownedAttempt(ctx context.Context, attemptID, userID string) (*models.Attempt, error) {
	attempt, err := s.Attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, apperr.NotFoundf("attempt %s not found", attemptID)
	}
	return attempt, nil
}

// TakeQuestion is a question as presented while taking a quiz: no correct
// answer, no explanation.
type TakeQuestion struct {
	ID      string            `json:"id"`
	Order   int               `json:"order"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"`
}

type TakeView struct {
	Attempt       *models.Attempt   `json:"attempt"`
	Questions     []TakeQuestion    `json:"questions"`
	Answers       map[string]string `json:"answers"`
	TimeRemaining int               `json:"time_remaining"`
}

// Take returns everything the client needs to render the attempt in
// progress. Completed attempts still load; the handler decides whether to
// redirect to results.
func (s *AttemptService) Take(ctx context.Context, attemptID, userID string) (*TakeView, error) {
	attempt, err := s.ownedAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}

	questions, err := s.Questions.FindByQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers.FindByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	view := &TakeView{
		Attempt:       attempt,
		Questions:     make([]TakeQuestion, 0, len(questions)),
		Answers:       make(map[string]string, len(answers)),
		TimeRemaining: attempt.TimeRemaining(time.Now().UTC()),
	}
	for _, q := range questions {
		view.Questions = append(view.Questions, TakeQuestion{
			ID:      q.ID,
			Order:   q.Order,
			Text:    q.Text,
			Options: q.Options(),
		})
	}
	for _, a := range answers {
		view.Answers[a.QuestionID] = a.SelectedAnswer
	}
	return view, nil
}

// SaveAnswer records the selected option for one question, replacing any
// earlier selection. Correctness is recomputed on every save.
func (s *AttemptService) SaveAnswer(ctx context.Context, attemptID, userID, questionID, selected string) (*models.Answer, error) {
	if !models.ValidOptionTag(selected) {
		return nil, apperr.Validationf("invalid answer option %q", selected)
	}

	attempt, err := s.ownedAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Completed {
		return nil, apperr.Validationf("attempt already completed")
	}

	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question.QuizID != attempt.QuizID {
		return nil, apperr.NotFoundf("question %s not found", questionID)
	}

	answer := &models.Answer{
		AttemptID:      attempt.ID,
		QuestionID:     question.ID,
		QuestionOrder:  question.Order,
		SelectedAnswer: selected,
		IsCorrect:      selected == question.CorrectAnswer,
		AnsweredAt:     time.Now().UTC(),
	}
	if err := s.Answers.Upsert(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

type SubmitResult struct {
	AttemptID        string  `json:"attempt_id"`
	Score            int     `json:"score"`
	TotalQuestions   int     `json:"total_questions"`
	Percentage       float64 `json:"percentage"`
	Passed           bool    `json:"passed"`
	Grade            string  `json:"grade"`
	TimeTaken        int     `json:"time_taken"`
	AlreadyCompleted bool    `json:"already_completed,omitempty"`
}

func submitResultFrom(attempt *models.Attempt) *SubmitResult {
	return &SubmitResult{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage,
		Passed:         attempt.Passed,
		Grade:          Grade(attempt.Percentage),
		TimeTaken:      attempt.TimeTaken,
	}
}

// Submit finalizes the attempt. A second submit returns the stored result
// untouched instead of rescoring.
func (s *AttemptService) Submit(ctx context.Context, attemptID, userID string) (*SubmitResult, error) {
	attempt, err := s.ownedAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Completed {
		result := submitResultFrom(attempt)
		result.AlreadyCompleted = true
		return result, nil
	}

	answers, err := s.Answers.FindByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	summary := Summarize(answers, attempt.PassPercentage)
	now := time.Now().UTC()
	taken := int(now.Sub(attempt.StartedAt).Seconds())
	if taken < 0 {
		taken = 0
	}

	attempt.Completed = true
	attempt.CompletedAt = &now
	attempt.TimeTaken = taken
	attempt.Score = summary.Score
	attempt.TotalQuestions = summary.TotalQuestions
	attempt.Percentage = summary.Percentage
	attempt.Passed = summary.Passed

	if err := s.Attempts.Complete(ctx, attempt); err != nil {
		return nil, err
	}

	s.Log.Info("attempt submitted",
		"attempt_id", attempt.ID,
		"score", attempt.Score,
		"percentage", attempt.Percentage,
		"passed", attempt.Passed,
	)
	if err := s.Events.Publish(event.AttemptCompleted, map[string]interface{}{
		"attempt_id": attempt.ID,
		"user_id":    attempt.UserID,
		"quiz_id":    attempt.QuizID,
		"score":      attempt.Score,
		"percentage": attempt.Percentage,
		"passed":     attempt.Passed,
	}); err != nil {
		s.Log.Warn("failed to publish attempt.completed", "error", err)
	}
	return submitResultFrom(attempt), nil
}

// QuestionResult is per-question detail on the results page, including the
// correct answer and explanations.
type QuestionResult struct {
	QuestionID     string            `json:"question_id"`
	Order          int               `json:"order"`
	Text           string            `json:"text"`
	Options        map[string]string `json:"options"`
	SelectedAnswer string            `json:"selected_answer"`
	CorrectAnswer  string            `json:"correct_answer"`
	IsCorrect      bool              `json:"is_correct"`
	Explanation    string            `json:"explanation,omitempty"`
	AIExplanation  string            `json:"ai_explanation,omitempty"`
}

type ResultsView struct {
	Attempt   *models.Attempt  `json:"attempt"`
	Grade     string           `json:"grade"`
	Correct   int              `json:"correct"`
	Incorrect int              `json:"incorrect"`
	Questions []QuestionResult `json:"questions"`
}

// Results returns the full breakdown for a completed attempt. Unanswered
// questions appear with an empty selection and count as incorrect.
func (s *AttemptService) Results(ctx context.Context, attemptID, userID string) (*ResultsView, error) {
	attempt, err := s.ownedAttempt(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}
	if !attempt.Completed {
		return nil, apperr.Validationf("attempt not yet submitted")
	}

	questions, err := s.Questions.FindByQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers.FindByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[string]models.Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	view := &ResultsView{
		Attempt:   attempt,
		Grade:     Grade(attempt.Percentage),
		Questions: make([]QuestionResult, 0, len(questions)),
	}
	for _, q := range questions {
		result := QuestionResult{
			QuestionID:    q.ID,
			Order:         q.Order,
			Text:          q.Text,
			Options:       q.Options(),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
		if a, ok := byQuestion[q.ID]; ok {
			result.SelectedAnswer = a.SelectedAnswer
			result.IsCorrect = a.IsCorrect
			result.AIExplanation = a.AIExplanation
		}
		if result.IsCorrect {
			view.Correct++
		} else {
			view.Incorrect++
		}
		view.Questions = append(view.Questions, result)
	}
	return view, nil
}

// ExplainAnswer returns an AI-written explanation of why the user's answer
// was right or wrong, generating and caching it on the answer row on first
// request.
func (s *AttemptService) ExplainAnswer(ctx context.Context, attemptID, userID, questionID string) (string, error) {
	attempt, err := s.ownedAttempt(ctx, attemptID, userID)
	if err != nil {
		return "", err
	}

	answer, err := s.Answers.Find(ctx, attempt.ID, questionID)
	if err != nil {
		return "", err
	}
	if answer.AIExplanation != "" {
		return answer.AIExplanation, nil
	}

	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return "", err
	}

	explanation, err := s.Provider.ExplainAnswer(ctx, provider.ExplainRequest{
		QuestionText:   question.Text,
		Options:        question.Options(),
		SelectedAnswer: answer.SelectedAnswer,
		CorrectAnswer:  question.CorrectAnswer,
	})
	if err != nil {
		return "", err
	}

	if err := s.Answers.SetExplanation(ctx, attempt.ID, questionID, explanation); err != nil {
		s.Log.Warn("failed to cache explanation", "attempt_id", attempt.ID, "question_id", questionID, "error", err)
	}
	return explanation, nil
}
