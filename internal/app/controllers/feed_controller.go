package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/app/services"
	"github.com/dcanli/fieldside/internal/middleware"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
)

// FeedController handles the home feed and post lifecycle endpoints
type FeedController struct {
	feedService services.FeedService
}

// NewFeedController creates a new FeedController
func NewFeedController(feedService services.FeedService) *FeedController {
	return &FeedController{feedService: feedService}
}

// GetFeed handles GET /. Anonymous requests get the same feed without the
// per-viewer follow and ownership flags.
func (c *FeedController) GetFeed(ctx *gin.Context) {
	currentUser := middleware.CurrentUser(ctx)

	response, err := c.feedService.GetFeed(ctx, models.OrderPostTime, nil, currentUser)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// SortPosts handles POST /sortPosts: reordering and category filtering of
// the feed. Unknown sort types fall back to newest-first, matching GetFeed.
func (c *FeedController) SortPosts(ctx *gin.Context) {
	var req dto.SortPostsRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	var category *string
	if req.SportFilter != "" && req.SportFilter != "all" {
		category = &req.SportFilter
	}

	currentUser := middleware.CurrentUser(ctx)

	response, err := c.feedService.GetFeed(ctx, models.ParseFeedOrder(req.SortType), category, currentUser)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// CreatePost handles POST /posts. Anonymous submissions are dropped without
// error and the caller just gets the unchanged feed back.
func (c *FeedController) CreatePost(ctx *gin.Context) {
	var req dto.CreatePostRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError(err.Error()))
		return
	}

	currentUser := middleware.CurrentUser(ctx)

	post, err := c.feedService.CreatePost(ctx, currentUser, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response, err := c.feedService.GetFeed(ctx, models.OrderPostTime, nil, currentUser)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if post != nil {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(response))
}

// DeletePost handles POST /delete/:id. Only the author may delete a post.
func (c *FeedController) DeletePost(ctx *gin.Context) {
	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("invalid post id"))
		return
	}

	currentUser := middleware.CurrentUser(ctx)

	if err := c.feedService.DeletePost(ctx, postID, currentUser); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted"))
}
