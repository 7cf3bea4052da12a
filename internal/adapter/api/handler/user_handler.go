package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type syncUserRequest struct {
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user vendor admin"`
}

// SyncUser records the signed-in account. The email always comes from the
// verified token, never from the body.
func (h *UserHandler) SyncUser(c echo.Context) error {
	var req syncUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	id := middleware.IdentityFrom(c)
	if req.DisplayName != "" {
		id.DisplayName = req.DisplayName
	}
	if req.PhotoURL != "" {
		id.PhotoURL = req.PhotoURL
	}

	user, created, err := h.userUseCase.SyncUser(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}
	if created {
		return response.Created(c, user)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetRole(c echo.Context) error {
	email := c.QueryParam("email")
	role, err := h.userUseCase.RoleOf(c.Request().Context(), callerFrom(c), email)
	if err != nil {
		return response.Error(c, err)
	}
	if email == "" {
		email = callerFrom(c).Email()
	}
	return response.Success(c, map[string]string{"email": email, "role": string(role)})
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	page, limit := pageAndLimit(c)
	users, total, err := h.userUseCase.ListUsers(c.Request().Context(), c.QueryParam("role"), c.QueryParam("search"), page, limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, users, total, page, limit)
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.userUseCase.SearchByEmail(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.ChangeRole(c.Request().Context(), callerFrom(c), c.Param("id"), req.Role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
