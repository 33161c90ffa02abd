package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kareemashraf12/YallaR7la/pkg/models"
)

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		public := v1.Group("")
		{
			auth := public.Group("/auth")
			{
				auth.POST("/register", s.register)
				auth.POST("/login", s.login)
			}

			// Catalog reads and booking operations
			destinations := public.Group("/destinations")
			{
				destinations.GET("", s.getAllDestinations)
				destinations.GET("/category", s.getDestinationsByCategory)
				destinations.GET("/search", s.searchDestinations)
				destinations.GET("/:id", s.getDestinationDetails)
				destinations.GET("/:id/feedback", s.getCommentsForDestination)
				destinations.PUT("/:id/book", s.bookDestination)
				destinations.PUT("/:id/unbook", s.unbookDestination)
			}
		}

		// Protected routes (JWT authentication required)
		protected := v1.Group("")
		protected.Use(s.authMiddleware())
		{
			destinations := protected.Group("/destinations")
			{
				destinations.POST("", s.requireRole(models.RoleBusinessOwner), s.addDestination)
				destinations.POST("/:id/feedback", s.addFeedback)
				destinations.POST("/:id/favorites", s.addToFavorites)
			}

			protected.GET("/favorites", s.getFavorites)

			owner := protected.Group("/owner")
			owner.Use(s.requireRole(models.RoleBusinessOwner))
			{
				owner.GET("/stats", s.getOwnerStats)
			}
		}
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
