package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/entity"
)

func SetupPaymentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	paymentHandler := handler.GetPaymentHandler()

	v1 := e.Group("/v1")
	user := []echo.MiddlewareFunc{authMiddleware.Authenticate, roleMiddleware.Require(entity.RoleUser)}

	v1.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent, user...)
	v1.POST("/payments", paymentHandler.RecordPayment, user...)
	v1.GET("/payments", paymentHandler.MyOrders, user...)

	v1.GET("/admin/all-orders", paymentHandler.AllOrders, authMiddleware.Authenticate, roleMiddleware.Require(entity.RoleAdmin))
}
