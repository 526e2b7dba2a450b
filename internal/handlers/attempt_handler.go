package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intelliquiz-service/internal/service"
)

type AttemptHandler struct {
	Service *service.AttemptService
}

func NewAttemptHandler(s *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// Take renders the attempt in progress. A completed attempt answers with a
// pointer to its results instead.
func (h *AttemptHandler) Take(c *gin.Context) {
	view, err := h.Service.Take(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if view.Attempt.Completed {
		c.JSON(http.StatusOK, gin.H{
			"completed":   true,
			"results_url": "/api/v1/attempts/" + view.Attempt.ID + "/results",
		})
		return
	}
	c.JSON(http.StatusOK, view)
}

type saveAnswerRequest struct {
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
}

func (h *AttemptHandler) SaveAnswer(c *gin.Context) {
	var req saveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Correctness stays server-side until results; echoing it here would let
	// a client retry options until it finds the right one.
	if _, err := h.Service.SaveAnswer(c.Request.Context(), c.Param("id"), userID(c), req.QuestionID, req.SelectedAnswer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *AttemptHandler) Submit(c *gin.Context) {
	result, err := h.Service.Submit(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AttemptHandler) Results(c *gin.Context) {
	view, err := h.Service.Results(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AttemptHandler) Explain(c *gin.Context) {
	explanation, err := h.Service.ExplainAnswer(c.Request.Context(), c.Param("id"), userID(c), c.Param("questionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}
