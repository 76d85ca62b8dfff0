package handler

import (
	"context"
	"net/http"
	"time"

	"tripstore/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const healthTimeout = 3 * time.Second

// Pinger is satisfied by the backend registry.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerParams holds dependencies for HealthHandler, injected by Fx.
type HealthHandlerParams struct {
	fx.In

	Pinger Pinger
}

// HealthHandler reports whether every backend in use answers.
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler is the constructor for HealthHandler
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{pinger: params.Pinger}
}

// Check pings the backends.
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		return response.ServiceUnavailable(c, "UNHEALTHY", err.Error())
	}

	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
