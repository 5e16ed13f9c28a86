package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"passcode-app/pkg/logger"
)

// Logger логирует каждый HTTP-запрос одной структурированной записью.
// Ошибки 5xx пишутся уровнем error, 4xx уровнем warn.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields["errors"] = errs
		}

		switch {
		case status >= 500:
			log.Error("http request", fields)
		case status >= 400:
			log.Warn("http request", fields)
		default:
			log.Info("http request", fields)
		}
	}
}
