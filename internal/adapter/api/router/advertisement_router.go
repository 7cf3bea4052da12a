package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/entity"
)

func SetupAdvertisementRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	advertisementHandler := handler.GetAdvertisementHandler()

	ads := e.Group("/v1/advertisements")
	ads.GET("/current", advertisementHandler.CurrentAdvertisements)

	auth := authMiddleware.Authenticate
	ads.GET("", advertisementHandler.ListAdvertisements, auth, roleMiddleware.Require(entity.RoleVendor, entity.RoleAdmin))
	ads.POST("", advertisementHandler.CreateAdvertisement, auth, roleMiddleware.Require(entity.RoleVendor))
	ads.PUT("/:id", advertisementHandler.UpdateAdvertisement, auth, roleMiddleware.Require(entity.RoleVendor))
	ads.DELETE("/:id", advertisementHandler.DeleteAdvertisement, auth, roleMiddleware.Require(entity.RoleVendor, entity.RoleAdmin))
	ads.PATCH("/:id/status", advertisementHandler.SetStatus, auth, roleMiddleware.Require(entity.RoleAdmin))
}
