package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/app/services"
	"github.com/dcanli/fieldside/internal/middleware"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

// FollowController handles the follow, unfollow and like endpoints
type FollowController struct {
	followService services.FollowService
}

// NewFollowController creates a new FollowController
func NewFollowController(followService services.FollowService) *FollowController {
	return &FollowController{followService: followService}
}

// Follow handles POST /follow/:id. Following twice is a no-op.
func (c *FollowController) Follow(ctx *gin.Context) {
	c.relationAction(ctx, "Post followed", c.followService.Follow)
}

// Unfollow handles POST /unfollow/:id. Unfollowing a post that was never
// followed is a no-op.
func (c *FollowController) Unfollow(ctx *gin.Context) {
	c.relationAction(ctx, "Post unfollowed", c.followService.Unfollow)
}

// Like handles POST /like/:id. Like shares the follow relation; the
// difference is the ownership rule enforced by the service.
func (c *FollowController) Like(ctx *gin.Context) {
	c.relationAction(ctx, "Post liked", c.followService.Like)
}

func (c *FollowController) relationAction(ctx *gin.Context, message string, action func(ctx context.Context, userID, postID int64) error) {
	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid post id"))
		return
	}

	currentUser := middleware.CurrentUser(ctx)
	if currentUser == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthorized)
		return
	}

	if err := action(ctx, currentUser.ID, postID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse(message))
}
