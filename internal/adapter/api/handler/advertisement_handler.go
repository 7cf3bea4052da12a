package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/response"
)

const currentAdvertisementsLimit = 5

type AdvertisementHandler struct {
	advertisementUseCase *usecase.AdvertisementUseCase
}

func NewAdvertisementHandler(advertisementUseCase *usecase.AdvertisementUseCase) *AdvertisementHandler {
	return &AdvertisementHandler{
		advertisementUseCase: advertisementUseCase,
	}
}

type advertisementRequest struct {
	Title       string `json:"title" validate:"required,max=120"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type advertisementStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
	Reason string `json:"reason"`
}

func (h *AdvertisementHandler) CreateAdvertisement(c echo.Context) error {
	var req advertisementRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ad, err := h.advertisementUseCase.CreateAdvertisement(c.Request().Context(), callerFrom(c), usecase.AdvertisementInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, ad)
}

func (h *AdvertisementHandler) UpdateAdvertisement(c echo.Context) error {
	var req advertisementRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ad, err := h.advertisementUseCase.UpdateAdvertisement(c.Request().Context(), callerFrom(c), c.Param("id"), usecase.AdvertisementInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ad)
}

func (h *AdvertisementHandler) ListAdvertisements(c echo.Context) error {
	params, err := listParams(c, access.ResourceAdvertisements, access.ViewMine, false)
	if err != nil {
		return response.Error(c, err)
	}

	ads, total, err := h.advertisementUseCase.ListAdvertisements(c.Request().Context(), params)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, ads, total, params.Page, params.Limit)
}

func (h *AdvertisementHandler) CurrentAdvertisements(c echo.Context) error {
	ads, err := h.advertisementUseCase.CurrentAdvertisements(c.Request().Context(), currentAdvertisementsLimit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ads)
}

func (h *AdvertisementHandler) SetStatus(c echo.Context) error {
	var req advertisementStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ad, err := h.advertisementUseCase.SetStatus(c.Request().Context(), callerFrom(c), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, ad)
}

func (h *AdvertisementHandler) DeleteAdvertisement(c echo.Context) error {
	if err := h.advertisementUseCase.DeleteAdvertisement(c.Request().Context(), callerFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"id": c.Param("id"), "status": "deleted"})
}
