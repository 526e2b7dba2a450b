package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliquiz-service/internal/service"
)

type QuizHandler struct {
	Quizzes  *service.QuizService
	Attempts *service.AttemptService
}

func NewQuizHandler(quizzes *service.QuizService, attempts *service.AttemptService) *QuizHandler {
	return &QuizHandler{Quizzes: quizzes, Attempts: attempts}
}

// Start resolves (or generates) the requested quiz and opens a fresh attempt
// on it in one call.
func (h *QuizHandler) Start(c *gin.Context) {
	var in service.StartQuizInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := userID(c)
	quiz, err := h.Quizzes.GetOrCreateQuiz(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, err)
		return
	}
	attempt, err := h.Attempts.Start(c.Request.Context(), uid, quiz)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quiz": quiz, "attempt": attempt})
}
