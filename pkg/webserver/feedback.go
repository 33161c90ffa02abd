package webserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kareemashraf12/YallaR7la/pkg/db"
	"github.com/Kareemashraf12/YallaR7la/pkg/models"
	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

// AddFeedbackRequest represents the request to leave feedback on a destination
type AddFeedbackRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
	Rating  int    `json:"rating" binding:"required"`
}

// addFeedback records a comment with a rating and refreshes the
// destination's rating aggregates
func (s *Server) addFeedback(c *gin.Context) {
	principal, err := s.getPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var req AddFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	min, max := s.config.Booking.RatingMin, s.config.Booking.RatingMax
	if req.Rating < min || req.Rating > max {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(
			fmt.Sprintf("Rating must be between %d and %d", min, max)))
		return
	}

	feedback := &models.Feedback{
		DestinationID: c.Param("id"),
		UserID:        principal.UserID,
		Content:       s.validator.SanitizeInput(req.Content),
		Rating:        req.Rating,
		SubmittedAt:   time.Now().UTC(),
	}

	result, err := s.repo.AddFeedback(feedback)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Destination not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to add feedback")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to add feedback"))
		return
	}

	s.logger.LogFeedback(feedback.DestinationID, principal.UserID, req.Rating,
		result.NewAverageRating, result.TotalComments)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"new_average_rating": result.NewAverageRating,
		"total_comments":     result.TotalComments,
	}, "Feedback added successfully"))
}

// getCommentsForDestination lists all feedback with author names.
// An unknown destination simply has no comments.
func (s *Server) getCommentsForDestination(c *gin.Context) {
	comments, err := s.repo.GetCommentsForDestination(c.Param("id"))
	if err != nil {
		s.logger.WithError(err).Error("Failed to get comments")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get comments"))
		return
	}

	if comments == nil {
		comments = []db.CommentData{}
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(comments, "Comments retrieved successfully"))
}
