package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/carelink-health/carelink/internal/facility"
)

func (s *Server) handleFacilitySearch(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	params := facility.SearchParams{
		UserID:   userID,
		Location: c.Query("location"),
		Type:     c.DefaultQuery("type", "all"),
	}
	if raw := c.Query("radius"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			badRequest(c, "radius must be a positive integer")
			return
		}
		params.RadiusKm = radius
	}
	if raw := c.Query("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "lat must be a number")
			return
		}
		params.Lat = &lat
	}
	if raw := c.Query("lng"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "lng must be a number")
			return
		}
		params.Lng = &lng
	}

	facilities, err := s.deps.Facilities.Search(c.Request.Context(), params)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": facilities, "count": len(facilities)})
}

func (s *Server) handleFacilityHistory(c *gin.Context) {
	userID, ok := userIDFromQuery(c)
	if !ok {
		return
	}

	searches, err := s.deps.Facilities.History(c.Request.Context(), userID, limitFromQuery(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondOK(c, emptyIfNil(searches))
}
