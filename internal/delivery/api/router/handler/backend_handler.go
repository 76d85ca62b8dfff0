package handler

import (
	"net/http"

	"tripstore/internal/backend"
	"tripstore/internal/delivery/api/response"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BackendHandlerParams holds dependencies for BackendHandler, injected by Fx.
type BackendHandlerParams struct {
	fx.In

	Registry *backend.Registry
}

// BackendHandler exposes the resolved backend selection.
type BackendHandler struct {
	registry *backend.Registry
}

// NewBackendHandler is the constructor for BackendHandler
func NewBackendHandler(params BackendHandlerParams) *BackendHandler {
	return &BackendHandler{registry: params.Registry}
}

type groupView struct {
	Group    backend.Group     `json:"group"`
	Backend  backend.Kind      `json:"backend"`
	Features []backend.Feature `json:"features"`
}

type selectionView struct {
	Profile             string                      `json:"profile"`
	Groups              []groupView                 `json:"groups"`
	MigrationCapability backend.MigrationCapability `json:"migrationCapability"`
}

// List returns which backend serves each capability group.
func (h *BackendHandler) List(c echo.Context) error {
	selection := h.registry.Selection()

	groups := make([]groupView, 0, len(backend.AllGroups()))
	for _, g := range backend.AllGroups() {
		kind := selection.Kind(g)
		groups = append(groups, groupView{Group: g, Backend: kind, Features: kind.Features()})
	}

	return response.Success(c, http.StatusOK, selectionView{
		Profile:             selection.Profile,
		Groups:              groups,
		MigrationCapability: h.registry.MigrationCapability(),
	})
}

// Supports answers whether the backend serving a group has a feature.
func (h *BackendHandler) Supports(c echo.Context) error {
	group, err := backend.ParseGroup(c.Param("group"))
	if err != nil {
		return err
	}
	feature, err := backend.ParseFeature(c.Param("feature"))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"group":     group,
		"feature":   feature,
		"backend":   h.registry.Selection().Kind(group),
		"supported": h.registry.Supports(group, feature),
	})
}
