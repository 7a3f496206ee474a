package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds baseline security headers to every response.
// hsts must stay off for plain-HTTP dev runs.
func SecurityHeadersMiddleware(hsts bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hsts {
			c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
		// JSON API plus static uploads; nothing here should run scripts
		c.Header("Content-Security-Policy", "default-src 'none'; img-src 'self'; frame-ancestors 'none'")

		// Authenticated responses are per-user
		if c.GetHeader("Authorization") != "" || c.GetHeader("Cookie") != "" {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}
