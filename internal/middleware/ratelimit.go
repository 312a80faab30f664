package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimiter is satisfied by caching.CacheService.
type RateLimiter interface {
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitByIP allows limit requests per client IP per window. Limiter
// errors fail open.
func RateLimitByIP(limiter RateLimiter, scope string, limit int, window time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limited, err := limiter.IsRateLimited(c.Request().Context(), scope+":"+c.RealIP(), limit, window)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, try again later")
			}
			return next(c)
		}
	}
}

// NewIPExtractor decides what c.RealIP returns. With no trusted proxies the
// socket address is used and forwarding headers are ignored. Otherwise
// X-Forwarded-For is honoured only for hops inside the given CIDRs.
func NewIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...), nil
}
