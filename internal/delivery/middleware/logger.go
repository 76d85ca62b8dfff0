package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"tripstore/config"
	deliverycontext "tripstore/internal/delivery/context"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/errors"

	"github.com/labstack/echo/v4"
)

// LoggerMiddleware writes one access log line per request. Successful
// requests are only logged in debug mode; failures are always logged.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware
func NewLoggerMiddleware(logger *slog.Logger, config *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  config.Env.Debug,
	}
}

// Handle processes request logging
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			// The error handler has not written the response yet.
			status = statusOf(err)
		}
		if status < 400 && !m.debug {
			return err
		}

		m.logRequest(c, start, status, err)

		return err
	}
}

func (m *LoggerMiddleware) logRequest(c echo.Context, start time.Time, status int, err error) {
	req := c.Request()
	logger := deliverycontext.GetLoggerOrDefault(req.Context(), m.logger)

	fields := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", status),
		slog.Duration("latency", time.Since(start)),
		slog.String("remote_ip", c.RealIP()),
	}
	if req.URL.RawQuery != "" {
		fields = append(fields, slog.String("query", req.URL.RawQuery))
	}
	if err != nil {
		fields = append(fields, slog.Any("error", err))
	}

	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	logger.LogAttrs(req.Context(), level, "HTTP Request", fields...)
}

func statusOf(err error) int {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}

	return http.StatusInternalServerError
}
