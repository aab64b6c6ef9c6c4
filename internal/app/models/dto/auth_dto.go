package dto

// RegisterRequest is the body for local registration
type RegisterRequest struct {
	Username string `json:"username" form:"username" binding:"required,min=2,max=32"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the body for local login
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RefreshTokenRequest is the body for the token refresh endpoint
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest revokes a refresh token
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType" example:"Bearer"`
}

// AuthResponse is returned from register/login/oauth callback
type AuthResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

// OAuthURLResponse carries the provider consent URL and state nonce
type OAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}
