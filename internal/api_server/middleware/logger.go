package middleware

import (
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/logger"
	"github.com/gin-gonic/gin"
)

// Logger writes one line per request. Server errors are logged at ERROR.
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}

		ctx := c.Request.Context()
		logger.FromContext(ctx, log).Log(ctx, level, "HTTP request",
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
