package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kareemashraf12/YallaR7la/pkg/db"
	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

// addToFavorites marks a destination as a favorite of the caller
func (s *Server) addToFavorites(c *gin.Context) {
	principal, err := s.getPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	favorite, err := s.repo.AddFavorite(principal.UserID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Destination not found"))
		case errors.Is(err, db.ErrDuplicateFavorite):
			c.JSON(http.StatusConflict, utils.NewErrorResponse("This destination is already in your favorites."))
		default:
			s.logger.WithError(err).Error("Failed to add favorite")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to add favorite"))
		}
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":        principal.UserID,
		"destination_id": favorite.DestinationID,
	}).Info("Favorite added")

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(favorite, "Destination added to favorites"))
}

// getFavorites lists the caller's favorite destinations
func (s *Server) getFavorites(c *gin.Context) {
	principal, err := s.getPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	favorites, err := s.repo.GetFavoritesByUserID(principal.UserID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get favorites")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get favorites"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(favorites, "Favorites retrieved successfully"))
}
