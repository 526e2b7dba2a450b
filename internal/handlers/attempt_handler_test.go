package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/event"
	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
	"intelliquiz-service/internal/provider"
	"intelliquiz-service/internal/service"
)

type stubAttemptStore struct{ attempt models.Attempt }

func (s *stubAttemptStore) Create(context.Context, *models.Attempt) error { return nil }
func (s *stubAttemptStore) FindByID(_ context.Context, id string) (*models.Attempt, error) {
	if id != s.attempt.ID {
		return nil, apperr.NotFoundf("attempt %s", id)
	}
	copied := s.attempt
	return &copied, nil
}
func (s *stubAttemptStore) Complete(context.Context, *models.Attempt) error { return nil }

type stubAnswerStore struct{ saved []models.Answer }

func (s *stubAnswerStore) Upsert(_ context.Context, answer *models.Answer) error {
	s.saved = append(s.saved, *answer)
	return nil
}
func (s *stubAnswerStore) Find(context.Context, string, string) (*models.Answer, error) {
	return nil, apperr.NotFoundf("answer not found")
}
func (s *stubAnswerStore) FindByAttempt(context.Context, string) ([]models.Answer, error) {
	return nil, nil
}
func (s *stubAnswerStore) SetExplanation(context.Context, string, string, string) error {
	return nil
}

type stubQuestionStore struct{ question models.Question }

func (s *stubQuestionStore) FindByID(_ context.Context, id string) (*models.Question, error) {
	if id != s.question.ID {
		return nil, apperr.NotFoundf("question %s", id)
	}
	copied := s.question
	return &copied, nil
}
func (s *stubQuestionStore) FindByQuiz(context.Context, string) ([]models.Question, error) {
	return []models.Question{s.question}, nil
}

func newSaveAnswerRouter(answers *stubAnswerStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	attempts := &stubAttemptStore{attempt: models.Attempt{ID: "a1", UserID: "u1", QuizID: "q1"}}
	questions := &stubQuestionStore{question: models.Question{ID: "qn1", QuizID: "q1", CorrectAnswer: "B", Order: 1}}
	svc := service.NewAttemptService(attempts, answers, questions, provider.NewMockProvider(), event.Nop{}, logger.NewNop())
	handler := NewAttemptHandler(svc)

	r := gin.New()
	r.POST("/attempts/:id/answers", func(c *gin.Context) {
		c.Set("user_id", "u1")
		handler.SaveAnswer(c)
	})
	return r
}

func TestSaveAnswerDoesNotRevealCorrectness(t *testing.T) {
	answers := &stubAnswerStore{}
	r := newSaveAnswerRouter(answers)

	for _, selected := range []string{"A", "B"} {
		w := httptest.NewRecorder()
		body := strings.NewReader(`{"question_id":"qn1","selected_answer":"` + selected + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/attempts/a1/answers", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		// Wrong and right selections must be indistinguishable while the
		// attempt is open, or a client could guess its way to a perfect score.
		if w.Body.String() != `{"saved":true}` {
			t.Errorf("Unexpected body for selection %s: %s", selected, w.Body.String())
		}
	}

	if len(answers.saved) != 2 {
		t.Fatalf("Expected 2 upserts, got %d", len(answers.saved))
	}
	if answers.saved[0].IsCorrect || !answers.saved[1].IsCorrect {
		t.Error("Correctness must still be recorded server-side")
	}
}
