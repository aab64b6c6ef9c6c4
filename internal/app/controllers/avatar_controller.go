package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/services"
	"github.com/dcanli/fieldside/internal/middleware"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
	"github.com/dcanli/fieldside/internal/pkg/avatar"
	"github.com/dcanli/fieldside/internal/pkg/logger"
)

// AvatarController serves generated letter avatars
type AvatarController struct {
	generator *avatar.Generator
	userRepo  services.UserRepository
}

// NewAvatarController creates a new AvatarController
func NewAvatarController(generator *avatar.Generator, userRepo services.UserRepository) *AvatarController {
	return &AvatarController{generator: generator, userRepo: userRepo}
}

// GetAvatar handles GET /avatar/:username. The image is rendered from the
// username alone, so any name resolves to a stable avatar whether or not a
// matching account exists.
func (c *AvatarController) GetAvatar(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	if username == "" {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("missing username"))
		return
	}

	image, err := c.generator.Avatar(username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Best effort: record where the avatar can be found for an existing
	// account. Ref is empty when persistence is disabled; there is nothing
	// to record then.
	if ref := c.generator.Ref(username); ref != "" {
		if user, lookupErr := c.userRepo.GetByUsername(ctx, username); lookupErr == nil && user.AvatarRef == nil {
			if updateErr := c.userRepo.UpdateAvatarRef(ctx, user.ID, ref); updateErr != nil {
				logger.Debug().Err(updateErr).Str("username", username).Msg("Failed to record avatar ref")
			}
		}
	}

	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Data(http.StatusOK, "image/png", image)
}
