package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-jobboard-backend/internal/domain"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing a well-formed incoming
// X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(string(domain.KeyRequestID), id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}
