package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
)

// TokenVerifier checks a credential and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// ResolveCaller maps a raw token to a caller. It never fails: absent,
// malformed and expired tokens all resolve to Anonymous.
func ResolveCaller(verifier TokenVerifier, raw string) domain.Caller {
	if raw == "" {
		return domain.Anonymous
	}
	claims, err := verifier.Verify(raw)
	if err != nil {
		return domain.Anonymous
	}
	return domain.NewCaller(claims.UserID, claims.Role)
}

// TokenFromRequest reads the credential from the auth cookie, then from a
// Bearer Authorization header.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func setCaller(c *gin.Context, caller domain.Caller) {
	c.Request = c.Request.WithContext(domain.WithCaller(c.Request.Context(), caller))
	c.Set(string(domain.KeyCaller), caller)
	if !caller.IsAnonymous() {
		c.Set(string(domain.KeyUserID), caller.UserID)
		c.Set(string(domain.KeyUserRole), caller.Role())
	}
}

// CallerFrom returns the caller stored by IdentifyCaller or Authenticate.
func CallerFrom(c *gin.Context) domain.Caller {
	if v, ok := c.Get(string(domain.KeyCaller)); ok {
		if caller, ok := v.(domain.Caller); ok {
			return caller
		}
	}
	return domain.Anonymous
}

// IdentifyCaller resolves optional identity. Bad tokens degrade to
// anonymous instead of failing the request.
func IdentifyCaller(verifier TokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		setCaller(c, ResolveCaller(verifier, TokenFromRequest(c, cookieName)))
		c.Next()
	}
}

// Authenticate requires a valid credential.
func Authenticate(verifier TokenVerifier, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFromRequest(c, cookieName)
		if raw == "" {
			c.Error(apperror.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		caller := ResolveCaller(verifier, raw)
		if caller.IsAnonymous() {
			c.Error(apperror.Unauthorized("Invalid or expired token"))
			c.Abort()
			return
		}
		setCaller(c, caller)
		c.Next()
	}
}

// RequireRole allows only callers with the given role. It must run after
// Authenticate.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c).Role() != role {
			c.Error(apperror.Forbidden("Requires " + role + " role"))
			c.Abort()
			return
		}
		c.Next()
	}
}
