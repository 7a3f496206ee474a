package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveCaller(t *testing.T) {
	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	token, _, err := tokens.Issue("u1", domain.RoleRecruiter)
	require.NoError(t, err)

	expired := auth.NewTokenManager("mw-secret", -time.Minute)
	stale, _, err := expired.Issue("u1", domain.RoleRecruiter)
	require.NoError(t, err)

	assert.Equal(t, domain.Caller{Kind: domain.CallerRecruiter, UserID: "u1"}, ResolveCaller(tokens, token))
	assert.Equal(t, domain.Anonymous, ResolveCaller(tokens, ""))
	assert.Equal(t, domain.Anonymous, ResolveCaller(tokens, "not.a.token"))
	assert.Equal(t, domain.Anonymous, ResolveCaller(tokens, stale))
}

func TestTokenFromRequest(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", func(c *gin.Context) { got = TokenFromRequest(c, "token") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	serve(r, req)
	assert.Equal(t, "from-header", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: "token", Value: "from-cookie"})
	serve(r, req)
	assert.Equal(t, "from-cookie", got)
}

func TestErrorHandler(t *testing.T) {
	build := func(dev bool) *gin.Engine {
		r := gin.New()
		r.Use(RequestID(), ErrorHandler(dev, nil))
		r.GET("/boom", func(c *gin.Context) { c.Error(errors.New("db password leaked")) })
		r.GET("/deny", func(c *gin.Context) { c.Error(apperror.Forbidden("You can only manage your own jobs")) })
		return r
	}

	t.Run("Should redact internal errors outside dev", func(t *testing.T) {
		w := serve(build(false), httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "leaked")

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Internal Server Error", body["message"])
		assert.Equal(t, []interface{}{}, body["errors"])
		assert.NotEmpty(t, body["requestId"])
	})

	t.Run("Should hide forbidden reasons outside dev", func(t *testing.T) {
		w := serve(build(false), httptest.NewRequest(http.MethodGet, "/deny", nil))
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), genericForbidden)
	})

	t.Run("Should keep forbidden reasons in dev", func(t *testing.T) {
		w := serve(build(true), httptest.NewRequest(http.MethodGet, "/deny", nil))
		assert.Contains(t, w.Body.String(), "own jobs")
	})
}

func TestRateLimiterInMemory(t *testing.T) {
	limiter := NewRateLimiter(nil, nil)
	r := gin.New()
	r.Use(limiter.Middleware(GlobalRateLimitConfig(2, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	token, _, err := tokens.Issue("a1", domain.RoleApplicant)
	require.NoError(t, err)

	r := gin.New()
	r.Use(ErrorHandler(true, nil))
	r.GET("/recruiters", Authenticate(tokens, "token"), RequireRole(domain.RoleRecruiter), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/recruiters", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/recruiters", nil)).Code)
}
