package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/entity"
)

func SetupDashboardRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	dashboardHandler := handler.GetDashboardHandler()

	v1 := e.Group("/v1")
	auth := authMiddleware.Authenticate

	v1.GET("/dashboard/menu", dashboardHandler.Menu, auth, roleMiddleware.Require())
	v1.GET("/dashboard/access", dashboardHandler.Access, auth, roleMiddleware.Attach)
	v1.GET("/stats", dashboardHandler.MyStats, auth, roleMiddleware.Require())

	v1.GET("/vendor-stats", dashboardHandler.VendorStats, auth, roleMiddleware.Require(entity.RoleVendor))
	v1.GET("/admin-stats", dashboardHandler.AdminStats, auth, roleMiddleware.Require(entity.RoleAdmin))
}
