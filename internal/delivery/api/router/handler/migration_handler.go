package handler

import (
	"log/slog"
	"net/http"

	"tripstore/internal/backend"
	"tripstore/internal/delivery/api/middleware"
	"tripstore/internal/delivery/api/response"
	deliverycontext "tripstore/internal/delivery/context"
	"tripstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MigrationHandlerParams holds dependencies for MigrationHandler, injected by Fx.
type MigrationHandlerParams struct {
	fx.In

	MigrationUC usecase.MigrationUsecase
	Logger      *slog.Logger
}

// MigrationHandler runs migrations on behalf of operators.
type MigrationHandler struct {
	migrationUC usecase.MigrationUsecase
	logger      *slog.Logger
}

// NewMigrationHandler is the constructor for MigrationHandler
func NewMigrationHandler(params MigrationHandlerParams) *MigrationHandler {
	return &MigrationHandler{
		migrationUC: params.MigrationUC,
		logger:      params.Logger,
	}
}

// Capability reports which migration directions the deployment supports.
func (h *MigrationHandler) Capability(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]backend.MigrationCapability{
		"capability": h.migrationUC.Capability(),
	})
}

// Migrate runs a migration synchronously and returns its result. A run with
// record failures still answers 200; only runs that could not start fail.
func (h *MigrationHandler) Migrate(c echo.Context) error {
	var req usecase.MigrationRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid migration request")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	opts, err := req.ToOptions(h.migrationUC.DefaultOptions(backend.Direction(req.Direction)))
	if err != nil {
		return err
	}

	operator, _ := middleware.GetSubject(c)
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger).Info("Migration requested",
		slog.String("operator", operator),
		slog.String("direction", string(opts.Direction)),
		slog.Any("entity_types", opts.EntityTypes),
	)

	result, err := h.migrationUC.Migrate(c.Request().Context(), opts)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, result)
}
