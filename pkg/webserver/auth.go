package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kareemashraf12/YallaR7la/pkg/models"
	"github.com/Kareemashraf12/YallaR7la/pkg/utils"
)

// RegisterRequest represents the request to register a new account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=user business_owner"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// register creates a new user account
func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	req.Name = s.validator.SanitizeInput(req.Name)
	req.Email = s.validator.SanitizeInput(req.Email)

	// Sanitization can strip characters, so re-validate the result
	if !s.validator.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid email address"))
		return
	}

	if _, err := s.repo.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, utils.NewErrorResponse("Email is already registered"))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.WithError(err).Error("Failed to check existing user")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to register"))
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.WithError(err).Error("Failed to hash password")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to register"))
		return
	}

	role := models.RoleUser
	if req.Role == string(models.RoleBusinessOwner) {
		role = models.RoleBusinessOwner
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.CreateUser(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, utils.NewErrorResponse("Email is already registered"))
			return
		}
		s.logger.WithError(err).Error("Failed to create user")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to register"))
		return
	}

	s.logger.LogAuth(user.ID, user.Email, "register", true)

	c.JSON(http.StatusCreated, utils.NewSuccessResponse(user, "Account created successfully"))
}

// login authenticates a user and issues a JWT
func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse("Invalid request data"))
		return
	}

	user, err := s.repo.GetUserByEmail(req.Email)
	if err != nil || !utils.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.LogAuth(0, req.Email, "login", false)
		c.JSON(http.StatusUnauthorized, utils.NewErrorResponse("Invalid email or password"))
		return
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse("Failed to log in"))
		return
	}

	s.logger.LogAuth(user.ID, user.Email, "login", true)

	c.JSON(http.StatusOK, utils.NewSuccessResponse(map[string]interface{}{
		"token": token,
		"user":  user,
	}, "Logged in successfully"))
}
