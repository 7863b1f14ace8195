package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"dukapos/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status. Health
// probes are skipped, server errors logged at error level.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/health") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		l := log.WithContext(c.Request.Context())
		if status >= 500 {
			l.Errorw("http request", fields...)
		} else {
			l.Infow("http request", fields...)
		}
	}
}
