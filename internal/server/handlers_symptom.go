package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type symptomCheckRequest struct {
	UserID   uuid.UUID `json:"userId"`
	Symptoms string    `json:"symptoms"`
}

func (s *Server) handleSymptomCheck(c *gin.Context) {
	if s.deps.Symptoms == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	var req symptomCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	result, err := s.deps.Symptoms.Analyze(c.Request.Context(), req.UserID, req.Symptoms)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (s *Server) handleSymptomHistory(c *gin.Context) {
	if s.deps.Symptoms == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	checks, err := s.deps.Symptoms.History(c.Request.Context(), userID, limitFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, emptyIfNil(checks))
}

func limitFromQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
