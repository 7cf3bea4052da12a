package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware, wsHandler *handler.WebSocketHandler) {
	SetupHealthRouter(e)
	SetupUserRouter(e, authMiddleware, roleMiddleware)
	SetupDashboardRouter(e, authMiddleware, roleMiddleware)
	SetupProductRouter(e, authMiddleware, roleMiddleware)
	SetupReviewRouter(e, authMiddleware, roleMiddleware)
	SetupWatchlistRouter(e, authMiddleware, roleMiddleware)
	SetupAdvertisementRouter(e, authMiddleware, roleMiddleware)
	SetupPaymentRouter(e, authMiddleware, roleMiddleware)
	if wsHandler != nil {
		SetupWebSocketRouter(e, authMiddleware, wsHandler)
	}
}
