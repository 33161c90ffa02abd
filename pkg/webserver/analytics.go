package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

// getOwnerStats returns the business-owner dashboard aggregates
func (s *Server) getOwnerStats(c *gin.Context) {
	principal, err := s.getPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid days parameter"))
			return
		}
		days = parsed
	}

	stats, err := s.repo.GetOwnerStats(principal.UserID, days)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get owner stats")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get stats"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(stats, "Stats retrieved successfully"))
}
