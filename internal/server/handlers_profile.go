package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/carelink-health/carelink/internal/models"
)

type profileRequest struct {
	UserID             uuid.UUID `json:"userId"`
	FullName           string    `json:"fullName"`
	Age                *int      `json:"age"`
	Gender             string    `json:"gender"`
	Location           string    `json:"location"`
	PreferredLanguage  string    `json:"preferredLanguage"`
	ExistingConditions []string  `json:"existingConditions"`
}

func (s *Server) handleGetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		badRequest(c, "User ID is malformed")
		return
	}

	profile, err := s.deps.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, profile)
}

func (s *Server) handleCreateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	profile, err := s.deps.Profiles.Create(c.Request.Context(), req.toModel(req.UserID))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondCreated(c, profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		badRequest(c, "User ID is malformed")
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}

	profile, err := s.deps.Profiles.Update(c.Request.Context(), req.toModel(userID))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, profile)
}

func (r *profileRequest) toModel(userID uuid.UUID) *models.UserProfile {
	return &models.UserProfile{
		ID:                 userID,
		FullName:           r.FullName,
		Age:                r.Age,
		Gender:             r.Gender,
		Location:           r.Location,
		PreferredLanguage:  r.PreferredLanguage,
		ExistingConditions: r.ExistingConditions,
	}
}
