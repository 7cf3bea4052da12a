package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/response"
)

type WatchlistHandler struct {
	watchlistUseCase *usecase.WatchlistUseCase
}

func NewWatchlistHandler(watchlistUseCase *usecase.WatchlistUseCase) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistUseCase: watchlistUseCase,
	}
}

type addToWatchlistRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func (h *WatchlistHandler) AddToWatchlist(c echo.Context) error {
	var req addToWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	item, err := h.watchlistUseCase.AddToWatchlist(c.Request().Context(), callerFrom(c), req.ProductID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, item)
}

func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	page, limit := pageAndLimit(c)
	items, total, err := h.watchlistUseCase.GetWatchlist(c.Request().Context(), callerFrom(c), page, limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, items, total, page, limit)
}

func (h *WatchlistHandler) RemoveFromWatchlist(c echo.Context) error {
	if err := h.watchlistUseCase.RemoveFromWatchlist(c.Request().Context(), callerFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"id": c.Param("id"), "status": "removed"})
}
