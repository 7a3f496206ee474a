package v1

import (
	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
)

// bindJSON decodes the body. Field rules are enforced by the usecases.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return false
	}
	return true
}

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

func caller(c *gin.Context) domain.Caller {
	return middleware.CallerFrom(c)
}
