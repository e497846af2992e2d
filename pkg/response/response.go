package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error sends an error response and records err on the context for the request logger
func Error(c *gin.Context, code int, message string, err ...error) {
	for _, e := range err {
		if e != nil {
			c.Error(e)
		}
	}
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}
