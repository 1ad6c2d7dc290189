package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/pkg/ratelimit"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

func init() { gin.SetMode(gin.TestMode) }

func newTokens(accessTTL time.Duration) *auth.TokenManager {
	return auth.NewTokenManager(config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     accessTTL,
		RefreshTTL:    time.Hour,
		Issuer:        "test",
	}, config.SessionConfig{Secret: "session"})
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		response.Success(c, gin.H{"user_id": CurrentUserID(c), "role": CurrentRole(c)})
	})
	r.GET("/x", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, response.Response) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestAuth(t *testing.T) {
	tm := newTokens(time.Minute)
	pair, err := tm.Issue("u1", model.RoleAuthor)
	require.NoError(t, err)
	r := newRouter(Auth(tm))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	w, body := do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "no token provided", body.Message)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	_, body = do(r, req)
	assert.Equal(t, "invalid token", body.Message)

	// refresh token 不能访问接口
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	_, body = do(r, req)
	assert.Equal(t, "invalid token", body.Message)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w, body = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"user_id": "u1", "role": "AUTHOR"}, body.Data)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: pair.AccessToken})
	w, _ = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code, "cookie token accepted")
}

func TestAuth_Expired(t *testing.T) {
	tm := newTokens(-time.Minute)
	pair, err := tm.Issue("u1", model.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w, body := do(newRouter(Auth(tm)), req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token expired", body.Message)
}

func TestOptionalAuth(t *testing.T) {
	tm := newTokens(time.Minute)
	pair, err := tm.Issue("u2", model.RoleUser)
	require.NoError(t, err)
	r := newRouter(OptionalAuth(tm))

	w, body := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", body.Data.(map[string]any)["user_id"])

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer broken")
	w, _ = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code, "bad token degrades to anonymous")

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	_, body = do(r, req)
	assert.Equal(t, "u2", body.Data.(map[string]any)["user_id"])
}

func TestRequireRole(t *testing.T) {
	tm := newTokens(time.Minute)
	r := newRouter(Auth(tm), RequireRole(model.RoleAuthor, model.RoleAdmin))

	user, err := tm.Issue("u", model.RoleUser)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+user.AccessToken)
	w, body := do(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "insufficient permissions", body.Message)

	admin, err := tm.Issue("a", model.RoleAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+admin.AccessToken)
	w, _ = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 2, time.Minute)
	t.Cleanup(limiter.Stop)
	r := newRouter(RequestLogger(), RateLimit(limiter))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w, _ := do(r, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w, _ := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client")
}
