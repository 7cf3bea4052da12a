package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/response"
)

type DashboardHandler struct {
	statsUseCase *usecase.StatsUseCase
}

func NewDashboardHandler(statsUseCase *usecase.StatsUseCase) *DashboardHandler {
	return &DashboardHandler{
		statsUseCase: statsUseCase,
	}
}

type accessResponse struct {
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

func stateOf(caller usecase.Caller) access.RoleState {
	if caller.Role.Valid() {
		return access.Resolved(caller.Role)
	}
	return access.Failed(nil)
}

// Menu returns the dashboard navigation for the caller's resolved role.
func (h *DashboardHandler) Menu(c echo.Context) error {
	caller := callerFrom(c)
	return response.Success(c, map[string]interface{}{
		"role": caller.Role,
		"menu": access.MenuFor(stateOf(caller)),
	})
}

// Access evaluates the navigation guard for ?path= on the caller's behalf.
func (h *DashboardHandler) Access(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return response.Error(c, errors.Validation("path", "path is required"))
	}

	req, err := access.RequirementFor(path)
	if err != nil {
		return response.Error(c, errors.NotFound("Route", err))
	}

	caller := callerFrom(c)
	id := caller.Identity
	d := access.Decide(&id, stateOf(caller), req, path)
	return response.Success(c, accessResponse{
		Path:       path,
		Outcome:    d.Outcome.String(),
		RedirectTo: d.RedirectTo,
	})
}

func (h *DashboardHandler) AdminStats(c echo.Context) error {
	stats, err := h.statsUseCase.AdminStats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *DashboardHandler) VendorStats(c echo.Context) error {
	stats, err := h.statsUseCase.VendorStats(c.Request().Context(), callerFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

func (h *DashboardHandler) MyStats(c echo.Context) error {
	stats, err := h.statsUseCase.ForCaller(c.Request().Context(), callerFrom(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}
