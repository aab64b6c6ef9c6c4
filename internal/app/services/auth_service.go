package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/app/models/dto"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
	"github.com/dcanli/fieldside/internal/pkg/auth"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// oauthStateTTL bounds how long an issued state nonce stays redeemable.
const oauthStateTTL = 10 * time.Minute

// oauthStateStore tracks issued state nonces. Each nonce is single-use:
// Consume removes it, so a replayed callback fails the state check.
type oauthStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newOAuthStateStore() *oauthStateStore {
	return &oauthStateStore{states: make(map[string]time.Time)}
}

func (s *oauthStateStore) Issue(state string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for nonce, issuedAt := range s.states {
		if now.Sub(issuedAt) > oauthStateTTL {
			delete(s.states, nonce)
		}
	}
	s.states[state] = now
}

func (s *oauthStateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	issuedAt, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Since(issuedAt) <= oauthStateTTL
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GoogleAuthURL() *dto.OAuthURLResponse
	GoogleCallback(ctx context.Context, code, state string) (*dto.AuthResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo    UserRepository
	tokenRepo   TokenRepository
	jwtService  *auth.JWTService
	oauthConfig *oauth2.Config
	oauthStates *oauthStateStore
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService. oauthConfig may be nil when the
// Google provider is not configured; the OAuth endpoints then reject
// requests.
func NewAuthService(
	userRepo UserRepository,
	tokenRepo TokenRepository,
	jwtService *auth.JWTService,
	oauthConfig *oauth2.Config,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		oauthConfig: oauthConfig,
		oauthStates: newOAuthStateStore(),
		logger:      logger,
	}
}

// Register creates a local-credential user and issues a token pair
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: &passwordHash,
	}

	// The users_username_key constraint is the real uniqueness guard;
	// Create maps its violation to ErrUsernameAlreadyExists.
	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Int64("userID", user.ID).Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login authenticates a local-credential user
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth-only accounts have no local password
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshToken rotates a refresh token and issues a fresh pair
func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetTokenUserID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	response, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &response.Token, nil
}

// Logout revokes a refresh token
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.RevokeToken(ctx, refreshToken)
	if errors.Is(err, apperrors.ErrTokenNotFound) {
		// Logging out with an unknown token is not an error worth surfacing
		return nil
	}
	return err
}

// GoogleAuthURL returns the provider consent URL with a fresh state nonce.
// The nonce is remembered server-side and must be echoed to GoogleCallback.
func (s *authServiceImpl) GoogleAuthURL() *dto.OAuthURLResponse {
	if s.oauthConfig == nil {
		return nil
	}

	state := uuid.New().String()
	s.oauthStates.Issue(state)
	return &dto.OAuthURLResponse{
		URL:   s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline),
		State: state,
	}
}

// googleUserInfo is the subset of the userinfo payload FieldSide needs
type googleUserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GoogleCallback verifies the echoed state, exchanges the authorization
// code, resolves the provider subject to a user (creating one on first
// login) and issues a token pair.
func (s *authServiceImpl) GoogleCallback(ctx context.Context, code, state string) (*dto.AuthResponse, error) {
	if s.oauthConfig == nil {
		return nil, apperrors.ErrOAuthExchange
	}

	// The state must match one we issued; a consumed or unknown nonce
	// indicates a forged or replayed callback.
	if !s.oauthStates.Consume(state) {
		s.logger.Warn().Msg("OAuth callback with unknown or expired state")
		return nil, apperrors.ErrOAuthStateMismatch
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("OAuth code exchange failed")
		return nil, apperrors.ErrOAuthExchange
	}

	info, err := s.fetchGoogleUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	// Only the hash of the provider subject is persisted
	sum := sha256.Sum256([]byte(info.ID))
	identityHash := hex.EncodeToString(sum[:])

	user, err := s.userRepo.GetByExternalIdentityHash(ctx, identityHash)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		user, err = s.createExternalUser(ctx, info.Name, identityHash)
	}
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if info.ID == "" {
		return nil, apperrors.ErrOAuthExchange
	}

	return &info, nil
}

// createExternalUser registers a first-time OAuth login. The display name
// comes from the provider profile; collisions get a suffix derived from the
// identity hash so the username stays stable across retries.
func (s *authServiceImpl) createExternalUser(ctx context.Context, displayName, identityHash string) (*models.User, error) {
	username := displayName
	if username == "" {
		username = "user-" + identityHash[:8]
	}

	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		username = fmt.Sprintf("%s-%s", username, identityHash[:6])
	}

	user := &models.User{
		Username:             username,
		ExternalIdentityHash: &identityHash,
	}

	if _, err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Int64("userID", user.ID).Msg("External user registered")

	return user, nil
}

// issueTokens generates and persists a token pair for a user
func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User: dto.NewUserResponse(user),
		Token: dto.TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    expiresIn,
			TokenType:    "Bearer",
		},
	}, nil
}
