package router

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/handler"
	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/entity"
)

func SetupWatchlistRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, roleMiddleware *middleware.RoleMiddleware) {
	watchlistHandler := handler.GetWatchlistHandler()

	watchlist := e.Group("/v1/watchlist")
	user := []echo.MiddlewareFunc{authMiddleware.Authenticate, roleMiddleware.Require(entity.RoleUser)}

	watchlist.GET("", watchlistHandler.GetWatchlist, user...)
	watchlist.POST("", watchlistHandler.AddToWatchlist, user...)
	watchlist.DELETE("/:id", watchlistHandler.RemoveFromWatchlist, user...)
}
