package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON error envelope used across the API:
// {"ok": false, "error": "..."}. Successful responses return their payload
// directly (the redirect middleware and external callers depend on the
// exact shapes, e.g. {"target": ...} from the forward lookup).
type Envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func OK(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{OK: false, Error: message})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	Fail(c, 400, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, 403, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, 404, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, 429, message)
}

func InternalServerError(c *gin.Context, message string) {
	Fail(c, 500, message)
}
