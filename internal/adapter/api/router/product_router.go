package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/entity"
)

// Middleware is attached per route. Group.Use would also claim the group's
// not-found routes, so an unknown product path would answer 401 instead of 404.
func SetupProductRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	productHandler := handler.GetProductHandler()

	e.GET("/v1/products-latest", productHandler.LatestProducts)

	products := e.Group("/v1/products")

	// public reads; a signed-in caller may see more (own or all products)
	optional := []echo.MiddlewareFunc{authMiddleware.Optional, roleMiddleware.Attach}
	products.GET("", productHandler.ListProducts, optional...)
	products.GET("/:id", productHandler.GetProduct, optional...)
	products.GET("/:id/price-history", productHandler.PriceHistory, optional...)

	vendor := []echo.MiddlewareFunc{authMiddleware.Authenticate, roleMiddleware.Require(entity.RoleVendor)}
	products.POST("", productHandler.CreateProduct, vendor...)
	products.PUT("/:id", productHandler.UpdateProduct, vendor...)
	products.DELETE("/:id", productHandler.DeleteProduct,
		authMiddleware.Authenticate, roleMiddleware.Require(entity.RoleVendor, entity.RoleAdmin))

	admin := []echo.MiddlewareFunc{authMiddleware.Authenticate, roleMiddleware.Require(entity.RoleAdmin)}
	products.PATCH("/:id/status", productHandler.ApproveProduct, admin...)
	products.PATCH("/:id/reject", productHandler.RejectProduct, admin...)
}
