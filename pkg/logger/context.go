package logger

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = echo.HeaderXRequestID

	echoKey = "logger"
)

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// FromContext returns the request logger stored in ctx, or the process logger.
func FromContext(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return Get()
}

// FromEcho returns the logger bound to the current request.
func FromEcho(c echo.Context) zerolog.Logger {
	if l, ok := c.Get(echoKey).(zerolog.Logger); ok {
		return l
	}
	return FromContext(c.Request().Context())
}

// Middleware binds a child of base carrying the request id to every request
// and writes one access line when the handler returns. It must run after
// echo's RequestID middleware.
func Middleware(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := c.Response().Header().Get(RequestIDHeader)
			if reqID == "" {
				reqID = req.Header.Get(RequestIDHeader)
			}

			l := base.With().Str("request_id", reqID).Logger()
			c.Set(echoKey, l)
			c.SetRequest(req.WithContext(WithContext(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			evt := l.Info()
			switch {
			case status >= 500:
				evt = l.Error().Err(err)
			case status >= 400:
				evt = l.Warn()
			}
			evt.
				Str("method", req.Method).
				Str("path", c.Path()).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}
