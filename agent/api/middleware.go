package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	"github.com/tanpawarit/agentic-automator/pkg/metrics"
)

const headerAPIKey = "x-api-key"

// requestLogger puts a request-scoped zerolog logger in the request context
// and writes one access line per request.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			logger := log.With().Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

			if err := next(c); err != nil {
				c.Error(err)
			}

			logger.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Str("remote_ip", c.RealIP()).
				Dur("latency", time.Since(start)).
				Msg("http request")
			return nil
		}
	}
}

// rateLimit admits requests per client IP. Limiter errors admit the request.
func rateLimit(limiter contractx.RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ok, err := limiter.Admit(ctx, c.RealIP())
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Msg("rate limiter unavailable, admitting request")
				return next(c)
			}
			if !ok {
				metrics.RateLimited.Inc()
				return c.String(http.StatusTooManyRequests, "Too Many Requests")
			}
			return next(c)
		}
	}
}

func apiKeyAuth(key string, exempt ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return next(c)
			}
			got := c.Request().Header.Get(headerAPIKey)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				return c.String(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}
