package middleware

import (
	"strings"
	"time"

	"sally/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger writes one structured line per request. Health probes and
// the docs UI are skipped.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	log = log.Named("http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if shouldSkipLogging(c.Request().URL.Path) {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response so the status below is final
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
				zap.String("user_agent", req.UserAgent()),
			}
			if identity, ok := common.IdentityFromContext(req.Context()); ok {
				fields = append(fields, zap.String("user_id", identity.UserID), zap.String("tenant_id", identity.TenantID))
			}

			switch {
			case status >= 500:
				log.Error("request", fields...)
			case status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}

func shouldSkipLogging(path string) bool {
	return strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/api/docs") || path == "/api"
}
