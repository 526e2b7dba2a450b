package service

import (
	"context"
	"testing"
	"time"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/event"
	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
	"intelliquiz-service/internal/provider"
)

type attemptFixture struct {
	svc      *AttemptService
	attempts *fakeAttemptStore
	answers  *fakeAnswerStore
	quizzes  *fakeQuizStore
	mock     *provider.MockProvider
	quiz     *models.Quiz
}

func newAttemptFixture(t *testing.T, questionCount int) *attemptFixture {
	t.Helper()

	quizzes := newFakeQuizStore()
	quiz := &models.Quiz{
		Title:          "Academic (Medium)",
		CategoryID:     "cat-1",
		CategoryName:   "Academic",
		CategorySlug:   "academic",
		Difficulty:     "medium",
		TimeLimit:      questionCount * 45,
		PassPercentage: 70,
		QuestionCount:  questionCount,
		IsActive:       true,
	}
	questions := make([]models.Question, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		questions = append(questions, models.Question{
			Text:          "Pick B",
			OptionA:       "wrong",
			OptionB:       "right",
			OptionC:       "wrong",
			OptionD:       "wrong",
			CorrectAnswer: "B",
			Explanation:   "B is right",
			Order:         i + 1,
		})
	}
	if err := quizzes.CreateWithQuestions(context.Background(), quiz, questions); err != nil {
		t.Fatalf("Failed to seed quiz: %v", err)
	}

	attempts := newFakeAttemptStore()
	answers := newFakeAnswerStore()
	mock := provider.NewMockProvider()
	svc := NewAttemptService(attempts, answers, &fakeQuestionStore{quizzes: quizzes}, mock, event.Nop{}, logger.NewNop())
	return &attemptFixture{svc: svc, attempts: attempts, answers: answers, quizzes: quizzes, mock: mock, quiz: quiz}
}

func (f *attemptFixture) questionID(order int) string {
	for _, q := range f.quizzes.questions[f.quiz.ID] {
		if q.Order == order {
			return q.ID
		}
	}
	return ""
}

func TestStartAttempt(t *testing.T) {
	f := newAttemptFixture(t, 10)

	attempt, err := f.svc.Start(context.Background(), "user-1", f.quiz)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if attempt.SessionToken == "" {
		t.Error("Expected a session token")
	}
	if attempt.TotalQuestions != 10 {
		t.Errorf("Expected 10 total questions, got %d", attempt.TotalQuestions)
	}
	if attempt.TimeLimit != 450 || attempt.PassPercentage != 70 {
		t.Errorf("Quiz settings not copied onto attempt: %d / %d", attempt.TimeLimit, attempt.PassPercentage)
	}
	if attempt.Completed {
		t.Error("New attempt must not be completed")
	}
}

func TestTakeHidesAnswers(t *testing.T) {
	f := newAttemptFixture(t, 5)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)

	view, err := f.svc.Take(context.Background(), attempt.ID, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(view.Questions) != 5 {
		t.Fatalf("Expected 5 questions, got %d", len(view.Questions))
	}
	for _, q := range view.Questions {
		if len(q.Options) != 4 {
			t.Errorf("Expected 4 options, got %d", len(q.Options))
		}
	}
	if view.TimeRemaining <= 0 || view.TimeRemaining > f.quiz.TimeLimit {
		t.Errorf("Unexpected time remaining %d", view.TimeRemaining)
	}

	// Other users cannot see the attempt at all.
	if _, err := f.svc.Take(context.Background(), attempt.ID, "user-2"); !apperr.IsNotFound(err) {
		t.Errorf("Expected not found for foreign attempt, got %v", err)
	}
}

func TestSaveAnswerUpsert(t *testing.T) {
	f := newAttemptFixture(t, 5)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)
	qid := f.questionID(1)

	answer, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", qid, "A")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if answer.IsCorrect {
		t.Error("Option A must be marked incorrect")
	}

	// Re-answering replaces the selection and recomputes correctness.
	answer, err = f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", qid, "B")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !answer.IsCorrect {
		t.Error("Option B must be marked correct")
	}

	stored, err := f.answers.FindByAttempt(context.Background(), attempt.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("Expected a single answer row after re-answering, got %d", len(stored))
	}
	if stored[0].SelectedAnswer != "B" {
		t.Errorf("Expected stored selection B, got %q", stored[0].SelectedAnswer)
	}
}

func TestSaveAnswerRejections(t *testing.T) {
	f := newAttemptFixture(t, 5)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)

	if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(1), "E"); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error for option E, got %v", err)
	}
	if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", "other-question", "A"); !apperr.IsNotFound(err) {
		t.Errorf("Expected not found for foreign question, got %v", err)
	}

	if _, err := f.svc.Submit(context.Background(), attempt.ID, "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(1), "A"); !apperr.IsValidation(err) {
		t.Errorf("Expected validation error after submit, got %v", err)
	}
}

func TestSubmitScoresAttempt(t *testing.T) {
	f := newAttemptFixture(t, 10)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)

	// 8 correct, 2 incorrect.
	for i := 1; i <= 8; i++ {
		if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(i), "B"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	for i := 9; i <= 10; i++ {
		if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(i), "C"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	result, err := f.svc.Submit(context.Background(), attempt.ID, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Score != 8 {
		t.Errorf("Expected score 8, got %d", result.Score)
	}
	if result.Percentage != 80 {
		t.Errorf("Expected 80%%, got %.1f", result.Percentage)
	}
	if !result.Passed {
		t.Error("80%% against a 70%% threshold must pass")
	}
	if result.Grade != "B+" {
		t.Errorf("Expected grade B+, got %q", result.Grade)
	}
	if result.TimeTaken < 0 {
		t.Errorf("Time taken must not be negative, got %d", result.TimeTaken)
	}
	if result.AlreadyCompleted {
		t.Error("First submit must not be flagged as already completed")
	}
}

func TestSubmitRecomputesTotalFromAnswers(t *testing.T) {
	f := newAttemptFixture(t, 10)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)
	if attempt.TotalQuestions != 10 {
		t.Fatalf("Expected the attempt seeded with 10 questions, got %d", attempt.TotalQuestions)
	}

	// Only half the quiz is answered, all correctly. Scoring counts the
	// answers that exist, so this is a perfect score over 5, not 50% of 10.
	for i := 1; i <= 5; i++ {
		if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(i), "B"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	result, err := f.svc.Submit(context.Background(), attempt.ID, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.TotalQuestions != 5 {
		t.Errorf("Expected total recomputed to 5, got %d", result.TotalQuestions)
	}
	if result.Percentage != 100 {
		t.Errorf("Expected 100%%, got %.1f", result.Percentage)
	}
	if !result.Passed {
		t.Error("A perfect score over the answered set must pass")
	}

	stored, err := f.attempts.FindByID(context.Background(), attempt.ID)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stored.TotalQuestions != 5 {
		t.Errorf("Expected the recomputed total persisted, got %d", stored.TotalQuestions)
	}
}

func TestSubmitIdempotent(t *testing.T) {
	f := newAttemptFixture(t, 5)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)

	for i := 1; i <= 5; i++ {
		if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(i), "B"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	first, err := f.svc.Submit(context.Background(), attempt.ID, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	second, err := f.svc.Submit(context.Background(), attempt.ID, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !second.AlreadyCompleted {
		t.Error("Second submit must be flagged as already completed")
	}
	if second.Score != first.Score || second.Percentage != first.Percentage {
		t.Errorf("Second submit must return the stored result, got %d / %.1f", second.Score, second.Percentage)
	}
}

func TestResultsBreakdown(t *testing.T) {
	f := newAttemptFixture(t, 5)
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)

	if _, err := f.svc.Results(context.Background(), attempt.ID, "user-1"); !apperr.IsValidation(err) {
		t.Fatalf("Results before submit must be rejected, got %v", err)
	}

	for i := 1; i <= 3; i++ {
		if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", f.questionID(i), "B"); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if _, err := f.svc.Submit(context.Background(), attempt.ID, "user-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	view, err := f.svc.Results(context.Background(), attempt.ID, "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if view.Correct != 3 || view.Incorrect != 2 {
		t.Errorf("Expected 3 correct / 2 incorrect, got %d / %d", view.Correct, view.Incorrect)
	}
	if len(view.Questions) != 5 {
		t.Fatalf("Expected 5 question results, got %d", len(view.Questions))
	}
	for i, q := range view.Questions {
		if q.Order != i+1 {
			t.Errorf("Expected results in question order, got %d at index %d", q.Order, i)
		}
		if q.CorrectAnswer != "B" {
			t.Errorf("Results must reveal the correct answer, got %q", q.CorrectAnswer)
		}
	}
	if view.Questions[4].SelectedAnswer != "" {
		t.Error("Unanswered question must show an empty selection")
	}
}

func TestExplainAnswerCaches(t *testing.T) {
	f := newAttemptFixture(t, 5)
	f.mock.AddExplanation("the tutor says B")
	attempt, _ := f.svc.Start(context.Background(), "user-1", f.quiz)
	qid := f.questionID(1)

	if _, err := f.svc.SaveAnswer(context.Background(), attempt.ID, "user-1", qid, "A"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	first, err := f.svc.ExplainAnswer(context.Background(), attempt.ID, "user-1", qid)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if first != "the tutor says B" {
		t.Errorf("Unexpected explanation %q", first)
	}

	second, err := f.svc.ExplainAnswer(context.Background(), attempt.ID, "user-1", qid)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("Cached explanation changed: %q vs %q", second, first)
	}
	if len(f.mock.ExplainCalls) != 1 {
		t.Errorf("Expected 1 provider explanation call, got %d", len(f.mock.ExplainCalls))
	}
}

func TestTimeRemaining(t *testing.T) {
	attempt := &models.Attempt{TimeLimit: 300, StartedAt: time.Now().Add(-100 * time.Second)}
	remaining := attempt.TimeRemaining(time.Now())
	if remaining < 199 || remaining > 201 {
		t.Errorf("Expected roughly 200s remaining, got %d", remaining)
	}

	expired := &models.Attempt{TimeLimit: 60, StartedAt: time.Now().Add(-2 * time.Minute)}
	if expired.TimeRemaining(time.Now()) != 0 {
		t.Error("Expired attempt must report zero time remaining")
	}
}
