package middleware

import (
	"strings"
	"time"

	"hypolab/domain/core"
	"hypolab/internal"

	"github.com/gin-gonic/gin"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID tags each request with an id, reusing a well-formed one sent by
// the client. The id is echoed in the response and forwarded to mounted handlers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseRequestID(c.GetHeader(RequestIDHeader))
		if err != nil {
			id = core.NewRequestID()
		}
		c.Set(RequestIDKey, id.String())
		c.Request.Header.Set(RequestIDHeader, id.String())
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

// RequestLogger logs one line per request. Paths under skipPrefix are left
// to the mounted handler's own logging.
func RequestLogger(logger *internal.Logger, skipPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipPrefix != "" && strings.HasPrefix(c.Request.URL.Path, skipPrefix) {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		entry := logger.WithFields(map[string]interface{}{
			RequestIDKey: c.GetString(RequestIDKey),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("%s %s", c.Request.Method, c.Request.URL.Path)
			return
		}
		entry.Info("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
