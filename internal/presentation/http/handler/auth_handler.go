package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/mscheesy-pos/internal/application/service"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/mscheesy-pos/internal/presentation/http/middleware"
	"github.com/sangkips/mscheesy-pos/pkg/apperror"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles staff login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user": gin.H{
			"id":          output.User.ID,
			"name":        output.User.Name,
			"email":       output.User.Email,
			"roles":       output.User.RoleNames(),
			"permissions": output.User.GetPermissions(),
		},
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	})
}

// Profile returns the signed-in user
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := middleware.UserIDFrom(c)
	if userID == uuid.Nil {
		response.Error(c, apperror.ErrUnauthorized)
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved", gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"roles":       user.RoleNames(),
		"permissions": user.GetPermissions(),
	})
}
