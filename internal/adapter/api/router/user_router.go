package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/entity"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	auth := authMiddleware.Authenticate

	// no role yet on first sign-in
	users.POST("", userHandler.SyncUser, auth)
	users.GET("/role", userHandler.GetRole, auth, roleMiddleware.Attach)

	admin := []echo.MiddlewareFunc{auth, roleMiddleware.Require(entity.RoleAdmin)}
	users.GET("", userHandler.ListUsers, admin...)
	users.GET("/search", userHandler.SearchUsers, admin...)
	users.PATCH("/:id/role", userHandler.ChangeRole, admin...)
}
