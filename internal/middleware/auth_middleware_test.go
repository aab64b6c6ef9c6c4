package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dcanli/fieldside/internal/pkg/auth"
)

func newTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/protected", RequireAuth(jwtService), func(c *gin.Context) {
		user := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})

	router.GET("/open", OptionalAuth(jwtService), func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})

	return router
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "fieldside.test",
	})
}

func TestRequireAuth(t *testing.T) {
	jwtService := newTestJWTService()
	router := newTestRouter(jwtService)

	accessToken, _, _, err := jwtService.GenerateTokenPair(1, "footballGuy")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + accessToken, wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := newTestJWTService()
	router := newTestRouter(jwtService)

	accessToken, _, _, err := jwtService.GenerateTokenPair(1, "footballGuy")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	tests := []struct {
		name     string
		header   string
		wantBody string
	}{
		{name: "valid token resolves user", header: "Bearer " + accessToken, wantBody: "footballGuy"},
		{name: "missing header continues anonymously", header: "", wantBody: "anonymous"},
		{name: "invalid token continues anonymously", header: "Bearer broken", wantBody: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/open", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if body := rec.Body.String(); !strings.Contains(body, tt.wantBody) {
				t.Errorf("body = %s, want it to mention %q", body, tt.wantBody)
			}
		})
	}
}
