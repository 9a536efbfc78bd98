package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthorizer struct {
	identity model.Identity
	err      error
	token    string
}

func (s *stubAuthorizer) Authorize(_ context.Context, token string) (model.Identity, error) {
	s.token = token
	return s.identity, s.err
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.OPTIONS("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for origin, want := range map[string]string{
		"http://localhost:5173": "http://localhost:5173",
		"http://evil.example":   "",
	} {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		authErr    error
		wantStatus int
	}{
		{"missing header", "", nil, http.StatusUnauthorized},
		{"not bearer", "Basic abc", nil, http.StatusUnauthorized},
		{"rejected token", "Bearer bad", apperr.Unauthorized("authorize", errors.New("bad")), http.StatusUnauthorized},
		{"store down", "Bearer tok", apperr.Unavailable("authorize", errors.New("down")), http.StatusServiceUnavailable},
		{"valid", "Bearer tok", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthorizer{identity: model.Identity{UserID: "u1", SessionID: "s1"}, err: tt.authErr}
			r := gin.New()
			r.GET("/me", AuthMiddleware(auth), func(c *gin.Context) {
				identity, ok := IdentityFrom(c)
				assert.True(t, ok)
				assert.Equal(t, "u1", identity.UserID)
				assert.Equal(t, "tok", AccessTokenFrom(c))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequestTracingSetsIDs(t *testing.T) {
	r := gin.New()
	r.Use(RequestTracingMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	id := rec.Header().Get(headerRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "given-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "given-id", rec.Header().Get(headerRequestID))
}

func TestRecoveryReturns500(t *testing.T) {
	r := gin.New()
	r.Use(EnhancedRecoveryMiddleware(utils.NopLogger()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestRequestSizeLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RequestSizeLimiter(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok")))
	assert.Equal(t, http.StatusOK, rec.Code)
}
