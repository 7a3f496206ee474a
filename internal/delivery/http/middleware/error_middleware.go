package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"
)

const genericForbidden = "Access denied"

// ErrorHandler renders the last error pushed with c.Error as an envelope.
// Outside dev mode internal messages are redacted and forbidden reasons are
// replaced with a generic message; the specific reason is logged.
func ErrorHandler(dev bool, secLogger *security.SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		defer func() {
			// Normalization must never leave the client without an envelope
			if r := recover(); r != nil {
				logger.Log.Error("error handler panicked", zap.Any("panic", r), zap.String("request_id", requestIDFrom(c)))
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, "Internal Server Error", nil)
				}
			}
		}()

		err := c.Errors.Last().Err
		appErr := normalize(err)

		message := appErr.Message
		switch {
		case appErr.Code >= http.StatusInternalServerError:
			logger.Log.Error("request failed",
				zap.Int("status", appErr.Code),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestIDFrom(c)),
				zap.Error(err),
			)
			if dev && appErr.Err != nil {
				message = appErr.Err.Error()
			}
		case appErr.Code == http.StatusForbidden:
			caller := domain.CallerFromContext(c.Request.Context())
			secLogger.LogAccessDenied(c.Request.Context(), caller.UserID, c.ClientIP(), requestIDFrom(c), c.FullPath(), appErr.Message)
			if !dev {
				message = genericForbidden
			}
		}

		response.Error(c, appErr.Code, message, appErr.Errors)
	}
}

func normalize(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Internal(err)
}

// Recovery turns a panic into a 500 envelope.
func Recovery(dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", requestIDFrom(c)),
					zap.Stack("stack"),
				)
				message := "Internal Server Error"
				if dev {
					message = fmt.Sprint(r)
				}
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, message, nil)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
