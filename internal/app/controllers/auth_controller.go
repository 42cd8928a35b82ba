package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/app/models/dto"
	"github.com/SealGummies/online-learning-platform/internal/app/services"
	"github.com/SealGummies/online-learning-platform/internal/middleware"
)

// AuthController handles registration and login
type AuthController struct {
	authService services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register creates a new account
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid registration data").WithDetails(err.Error())))
		return
	}

	user, token, err := c.authService.Register(ctx, req.Email, req.Password, req.FirstName, req.LastName, models.RoleType(req.RoleType))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      newAuthResponse(user, token),
		Timestamp: time.Now(),
	})
}

// Login authenticates an account and issues an access token
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid login data").WithDetails(err.Error())))
		return
	}

	user, token, err := c.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      newAuthResponse(user, token),
		Timestamp: time.Now(),
	})
}

// Me returns the authenticated caller's own account
func (c *AuthController) Me(ctx *gin.Context) {
	userID := middleware.UserIDFromContext(ctx)
	user, err := c.authService.GetUser(ctx, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			RoleType:  string(user.RoleType),
		},
		Timestamp: time.Now(),
	})
}

func newAuthResponse(user *models.User, token string) dto.AuthResponse {
	return dto.AuthResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			RoleType:  string(user.RoleType),
		},
	}
}
