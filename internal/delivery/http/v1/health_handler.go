package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
)

// HealthCheck godoc
// @Summary      Health check
// @Description  Reports reachability of the store and optional dependencies
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthHandler(healthUC domain.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := healthUC.Check(c.Request.Context())
		if !ok {
			c.JSON(http.StatusServiceUnavailable, response.Response{
				Message:    "System degraded",
				StatusCode: http.StatusServiceUnavailable,
				Success:    false,
				Data:       status,
				RequestID:  requestID(c),
			})
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	}
}
