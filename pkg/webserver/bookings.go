package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kareemashraf12/YallaR7la/pkg/db"
	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

// bookDestination reserves one slot on a destination
func (s *Server) bookDestination(c *gin.Context) {
	id := c.Param("id")

	remaining, err := s.repo.BookDestination(id)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Destination not found"))
		case errors.Is(err, db.ErrUnavailable):
			s.logger.LogBooking(id, 0, "book", false, 0)
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("This destination is not currently available."))
		case errors.Is(err, db.ErrFullyBooked):
			s.logger.LogBooking(id, 0, "book", false, 0)
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Sorry, the destination is fully booked."))
		default:
			s.logger.WithError(err).Error("Failed to book destination")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to book destination"))
		}
		return
	}

	s.logger.LogBooking(id, 0, "book", true, remaining)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"remaining_slots": remaining,
	}, "Booking successful."))
}

// unbookDestination releases a previously booked slot
func (s *Server) unbookDestination(c *gin.Context) {
	id := c.Param("id")

	available, err := s.repo.UnbookDestination(id, s.config.Booking.CapReleases)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Destination not found"))
		case errors.Is(err, db.ErrCapacityExceeded):
			s.logger.LogBooking(id, 0, "unbook", false, 0)
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse("All slots are already released."))
		default:
			s.logger.WithError(err).Error("Failed to unbook destination")
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to unbook destination"))
		}
		return
	}

	s.logger.LogBooking(id, 0, "unbook", true, available)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"available_slots": available,
	}, "Unbooking successful. Slot released."))
}
