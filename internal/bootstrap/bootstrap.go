package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	appControllers "github.com/dcanli/fieldside/internal/app/controllers"
	appMigrations "github.com/dcanli/fieldside/internal/app/migrations"
	appRepos "github.com/dcanli/fieldside/internal/app/repositories"
	appRoutes "github.com/dcanli/fieldside/internal/app/routes"
	appServices "github.com/dcanli/fieldside/internal/app/services"
	"github.com/dcanli/fieldside/internal/config"
	"github.com/dcanli/fieldside/internal/db"
	pkgAuth "github.com/dcanli/fieldside/internal/pkg/auth"
	"github.com/dcanli/fieldside/internal/pkg/avatar"
	"github.com/dcanli/fieldside/internal/pkg/helpers"
	"github.com/dcanli/fieldside/internal/pkg/logger"
	"github.com/dcanli/fieldside/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      appServices.AuthService
	FeedService      appServices.FeedService
	FollowService    appServices.FollowService
	UserService      appServices.UserService
	AuthController   *appControllers.AuthController
	FeedController   *appControllers.FeedController
	FollowController *appControllers.FollowController
	UserController   *appControllers.UserController
	AvatarController *appControllers.AvatarController
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	AvatarGenerator  *avatar.Generator
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds sample data when enabled.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(database.Pool).Run(context.Background()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if cfg.Feed.SeedSampleData {
		if err := seed.CreateSampleData(context.Background(), database.Pool, lgr); err != nil {
			// Sample data is a convenience, not a startup requirement
			lgr.Error().Err(err).Msg("Failed to seed sample data, proceeding anyway")
		}
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	// Startup housekeeping: expired refresh tokens are dead rows
	if purged, err := deps.Repos.TokenRepository.DeleteExpiredTokens(context.Background()); err != nil {
		lgr.Warn().Err(err).Msg("Failed to purge expired refresh tokens")
	} else if purged > 0 {
		lgr.Info().Int64("purged", purged).Msg("Expired refresh tokens removed")
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	var err error
	deps.AvatarGenerator, err = avatar.NewGenerator(cfg.Avatar.Size, cfg.Server.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize avatar generator: %w", err)
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		googleOAuthConfig(cfg),
		lgr,
	)
	deps.FeedService = appServices.NewFeedService(deps.Repos.PostRepository, deps.Repos.FollowRepository, lgr)
	deps.FollowService = appServices.NewFollowService(
		deps.Repos.FollowRepository,
		deps.Repos.PostRepository,
		appServices.FollowConfig{AllowSelfLike: cfg.Feed.AllowSelfLike},
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.PostRepository,
		deps.Repos.FollowRepository,
		lgr,
	)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.FeedController = appControllers.NewFeedController(deps.FeedService)
	deps.FollowController = appControllers.NewFollowController(deps.FollowService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.AvatarController = appControllers.NewAvatarController(deps.AvatarGenerator, deps.Repos.UserRepository)

	return deps, nil
}

// googleOAuthConfig returns nil when the Google provider is not configured,
// which disables the OAuth endpoints.
func googleOAuthConfig(cfg *config.Config) *oauth2.Config {
	if cfg.OAuth.Google.ClientID == "" || cfg.OAuth.Google.ClientSecret == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     cfg.OAuth.Google.ClientID,
		ClientSecret: cfg.OAuth.Google.ClientSecret,
		RedirectURL:  cfg.OAuth.Google.RedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.FeedController,
		deps.FollowController,
		deps.UserController,
		deps.AvatarController,
		deps.JWTService,
	)

	return router
}
