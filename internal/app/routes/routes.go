package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/app/controllers"
	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/middleware"
	"github.com/dcanli/fieldside/internal/pkg/auth"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	feedController *controllers.FeedController,
	followController *controllers.FollowController,
	userController *controllers.UserController,
	avatarController *controllers.AvatarController,
	jwtService *auth.JWTService,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewMessageResponse("ok"))
	})

	// --- Public Auth routes ---
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authController.Register)
		authGroup.POST("/login", authController.Login)
		authGroup.POST("/refresh", authController.RefreshToken)
		authGroup.POST("/logout", authController.Logout)
		authGroup.GET("/google", authController.GoogleAuthURL)
		authGroup.GET("/google/callback", authController.GoogleCallback)
	}

	// Avatars are public; any username renders to a stable image
	router.GET("/avatar/:username", avatarController.GetAvatar)

	// --- Feed routes ---
	// The feed is readable anonymously; posting silently no-ops without a
	// session, so these share the optional-auth middleware.
	optional := router.Group("")
	optional.Use(middleware.OptionalAuth(jwtService))
	{
		optional.GET("/", feedController.GetFeed)
		optional.POST("/sortPosts", feedController.SortPosts)
		optional.POST("/posts", feedController.CreatePost)
	}

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(middleware.RequireAuth(jwtService))
	{
		authenticated.GET("/profile", userController.GetProfile)
		authenticated.POST("/delete/:id", feedController.DeletePost)
		authenticated.POST("/follow/:id", followController.Follow)
		authenticated.POST("/unfollow/:id", followController.Unfollow)
		authenticated.POST("/like/:id", followController.Like)
	}
}
