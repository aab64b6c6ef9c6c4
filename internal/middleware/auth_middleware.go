package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/pkg/auth"
	"github.com/dcanli/fieldside/internal/pkg/logger"
)

const currentUserKey = "currentUser"

// RequireAuth aborts the request with 401 unless a valid bearer token is
// present. On success the authenticated user is stored in the gin context.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(jwtService, c)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected unauthenticated request")
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(currentUserKey, &models.User{
			ID:       claims.UserID,
			Username: claims.Username,
		})
		c.Next()
	}
}

// OptionalAuth populates the current user when a valid bearer token is
// present and lets the request through anonymously otherwise.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(jwtService, c)
		if err == nil {
			c.Set(currentUserKey, &models.User{
				ID:       claims.UserID,
				Username: claims.Username,
			})
		}
		c.Next()
	}
}

func claimsFromRequest(jwtService *auth.JWTService, c *gin.Context) (*auth.Claims, error) {
	token, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil, err
	}
	return jwtService.ValidateAndExtractClaims(token)
}

// CurrentUser returns the authenticated user from the gin context, or nil
// for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
