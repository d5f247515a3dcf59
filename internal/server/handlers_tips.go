package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type healthTipsRequest struct {
	UserID   uuid.UUID `json:"userId"`
	Category string    `json:"category"`
}

func (s *Server) handleHealthTips(c *gin.Context) {
	if s.deps.Tips == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	var req healthTipsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	result, err := s.deps.Tips.Generate(c.Request.Context(), req.UserID, req.Category)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (s *Server) handleHealthTipsHistory(c *gin.Context) {
	if s.deps.Tips == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI features are not configured"})
		return
	}

	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	records, err := s.deps.Tips.History(c.Request.Context(), userID, limitFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, emptyIfNil(records))
}
