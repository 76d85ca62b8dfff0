// Package middleware contains echo middleware specific to the admin API.
package middleware

import (
	"log/slog"
	"net/http"

	"tripstore/internal/delivery/api/response"
	"tripstore/internal/delivery/api/validator"
	deliverycontext "tripstore/internal/delivery/context"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if fields := validator.FieldErrors(err); fields != nil {
		_ = response.BadRequestWithDetails(c, domainerrors.ErrValidationFailed.ErrorCode(), domainerrors.ErrValidationFailed.Message(), fields)

		return
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logError(c, err)
		}
		// 4xx errors carry the wrapped context so operators see which input failed.
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), err.Error())

		return
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		_ = response.NotFound(c, domainerrors.ErrNotFound.ErrorCode(), domainerrors.ErrNotFound.Message())

		return
	case errors.Is(err, repository.ErrUnavailable):
		m.logError(c, err)
		_ = response.ServiceUnavailable(c, "BACKEND_UNAVAILABLE", "Backend unavailable, please try again later")

		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}

		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", message, nil)

		return
	}

	m.logError(c, err)
	_ = response.Error(c, http.StatusInternalServerError, domainerrors.ErrInternalError.ErrorCode(), "Internal server error, please try again later", nil)
}

func (m *ErrorMiddleware) logError(c echo.Context, err error) {
	logger := deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}
