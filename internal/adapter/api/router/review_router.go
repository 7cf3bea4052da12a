package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	e.GET("/v1/products/:id/reviews", reviewHandler.ListReviews)
	e.POST("/v1/products/:id/reviews", reviewHandler.CreateReview,
		authMiddleware.Authenticate, roleMiddleware.Require())
}
