package webserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Kareemashraf12/YallaR7la/pkg/db"
	"github.com/Kareemashraf12/YallaR7la/pkg/models"
	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

// AddDestinationRequest represents the request to list a new destination
type AddDestinationRequest struct {
	Name           string     `json:"name" binding:"required,min=1,max=100"`
	Description    string     `json:"description" binding:"max=1000"`
	Location       string     `json:"location" binding:"max=200"`
	Category       string     `json:"category" binding:"required,max=100"`
	Cost           float64    `json:"cost" binding:"required,gt=0"`
	Discount       float64    `json:"discount" binding:"gte=0,lte=100"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	AvailableSlots int        `json:"available_slots" binding:"gte=0"`
	Images         []string   `json:"images" binding:"omitempty,dive,max=2000"`
}

// getAllDestinations returns a page of available destinations, best rated first
func (s *Server) getAllDestinations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	count, err := s.repo.CountAvailableDestinations()
	if err != nil {
		s.logger.WithError(err).Error("Failed to count destinations")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list destinations"))
		return
	}

	pagination := utils.NewPagination(page, limit, count)
	summaries, err := s.repo.GetAvailableDestinations(pagination.Limit, pagination.GetOffset())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list destinations")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to list destinations"))
		return
	}

	c.JSON(http.StatusOK, utils.NewPaginatedResponse(summaries, pagination, "Destinations retrieved successfully"))
}

// getDestinationDetails returns the full record including images and feedback
func (s *Server) getDestinationDetails(c *gin.Context) {
	destination, err := s.repo.GetDestinationByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, utils.NewErrorResponse("Destination not found"))
			return
		}
		s.logger.WithError(err).Error("Failed to get destination")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get destination"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(destination, "Destination retrieved successfully"))
}

// getDestinationsByCategory returns available destinations in one category
func (s *Server) getDestinationsByCategory(c *gin.Context) {
	category := s.validator.SanitizeInput(c.Query("category"))
	if category == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Category is required"))
		return
	}

	destinations, err := s.repo.GetDestinationsByCategory(category)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get destinations by category")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to get destinations"))
		return
	}

	if len(destinations) == 0 {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("No destinations found in this category"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(destinations, "Destinations retrieved successfully"))
}

// searchDestinations performs a free-text search over the catalog
func (s *Server) searchDestinations(c *gin.Context) {
	input := c.Query("input")
	tokens := utils.TokenizeQuery(input)
	if len(tokens) == 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Search input is required"))
		return
	}

	destinations, err := s.repo.SearchDestinations(tokens)
	if err != nil {
		s.logger.WithError(err).Error("Failed to search destinations")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to search destinations"))
		return
	}

	if len(destinations) == 0 {
		c.JSON(http.StatusNotFound, utils.NewErrorResponse("No destinations matched the search"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse(destinations, "Destinations retrieved successfully"))
}

// addDestination lists a new destination for the calling business owner
func (s *Server) addDestination(c *gin.Context) {
	principal, err := s.getPrincipal(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Unauthorized"))
		return
	}

	var req AddDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	// Sanitize input
	req.Name = s.validator.SanitizeInput(req.Name)
	req.Description = s.validator.SanitizeInput(req.Description)
	req.Location = s.validator.SanitizeInput(req.Location)
	req.Category = s.validator.SanitizeInput(req.Category)

	// The stored cost already includes the discount
	cost := req.Cost - (req.Discount/100)*req.Cost

	destination := &models.Destination{
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		Category:        req.Category,
		Cost:            cost,
		Discount:        req.Discount,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Capacity:        req.AvailableSlots,
		AvailableSlots:  req.AvailableSlots,
		IsAvailable:     req.AvailableSlots > 0,
		BusinessOwnerID: principal.UserID,
	}

	for _, url := range req.Images {
		destination.Images = append(destination.Images, models.DestinationImage{
			ImageURL: url,
		})
	}

	if err := s.repo.CreateDestination(destination); err != nil {
		s.logger.WithError(err).Error("Failed to create destination")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to create destination"))
		return
	}

	s.logger.WithFields(map[string]interface{}{
		"owner_id":       principal.UserID,
		"destination_id": destination.DestinationID,
		"name":           destination.Name,
	}).Info("Destination created")

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(destination, "Destination created successfully"))
}
