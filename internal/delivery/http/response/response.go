package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the API JSON response
type Response struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Errors     []string    `json:"errors,omitempty"`
	RequestID  string      `json:"requestId,omitempty"`
}

const requestIDKey = "RequestID"

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Message:    message,
		StatusCode: code,
		Success:    true,
		Data:       data,
		RequestID:  requestID(c),
	})
}

// Error sends an error response. errs is always serialized, empty when nil.
func Error(c *gin.Context, code int, message string, errs []string) {
	if errs == nil {
		errs = []string{}
	}
	c.JSON(code, errorBody{
		Response: Response{
			Message:    message,
			StatusCode: code,
			Success:    false,
			RequestID:  requestID(c),
		},
		Errors: errs,
	})
}

// errorBody shadows the omitempty Errors field so error envelopes always
// carry the array.
type errorBody struct {
	Response
	Errors []string `json:"errors"`
}
