package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/app/services"
	"github.com/dcanli/fieldside/internal/middleware"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

// UserController handles the profile endpoint
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile handles GET /profile: the viewer's own posts plus the posts
// they follow.
func (c *UserController) GetProfile(ctx *gin.Context) {
	currentUser := middleware.CurrentUser(ctx)
	if currentUser == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	response, err := c.userService.GetProfile(ctx, currentUser.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
