package handler

import (
	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/domain/entity"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/errors"
	"bazaarbondhu/pkg/response"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type pricePointRequest struct {
	Date  string  `json:"date" validate:"required,datetime=2006-01-02"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type productRequest struct {
	MarketName        string              `json:"marketName" validate:"required"`
	MarketDescription string              `json:"marketDescription"`
	Date              string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ItemName          string              `json:"itemName" validate:"required"`
	ItemDescription   string              `json:"itemDescription"`
	Image             string              `json:"image" validate:"omitempty,url"`
	PricePerUnit      float64             `json:"pricePerUnit" validate:"required,gt=0"`
	PriceHistory      []pricePointRequest `json:"priceHistory" validate:"dive"`
}

func (r productRequest) input() usecase.ProductInput {
	history := make([]entity.PricePoint, 0, len(r.PriceHistory))
	for _, pt := range r.PriceHistory {
		history = append(history, entity.PricePoint{Date: pt.Date, Price: pt.Price})
	}
	return usecase.ProductInput{
		MarketName:        r.MarketName,
		MarketDescription: r.MarketDescription,
		Date:              r.Date,
		ItemName:          r.ItemName,
		ItemDescription:   r.ItemDescription,
		Image:             r.Image,
		PricePerUnit:      r.PricePerUnit,
		PriceHistory:      history,
	}
}

type approveRequest struct {
	Status string `json:"status" validate:"required,eq=approved"`
}

type rejectRequest struct {
	Reason   string `json:"reason" validate:"required"`
	Feedback string `json:"feedback" validate:"required"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.CreateProduct(c.Request().Context(), callerFrom(c), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.UpdateProduct(c.Request().Context(), callerFrom(c), c.Param("id"), req.input())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.GetProduct(c.Request().Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

// ListProducts serves the catalog, a vendor's own products (?view=mine) and
// the admin listing (?view=all).
func (h *ProductHandler) ListProducts(c echo.Context) error {
	params, err := listParams(c, access.ResourceProducts, access.ViewCatalog, false)
	if err != nil {
		return response.Error(c, err)
	}

	products, total, err := h.productUseCase.ListProducts(c.Request().Context(), params)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, products, total, params.Page, params.Limit)
}

func (h *ProductHandler) LatestProducts(c echo.Context) error {
	products, err := h.productUseCase.LatestProducts(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

func (h *ProductHandler) PriceHistory(c echo.Context) error {
	history, err := h.productUseCase.PriceHistory(c.Request().Context(), callerFrom(c), c.Param("id"), c.QueryParam("date"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, history)
}

func (h *ProductHandler) ApproveProduct(c echo.Context) error {
	var req approveRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, errors.Validation("status", "status must be approved; use the reject endpoint to reject"))
	}

	product, err := h.productUseCase.ApproveProduct(c.Request().Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *ProductHandler) RejectProduct(c echo.Context) error {
	var req rejectRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.RejectProduct(c.Request().Context(), callerFrom(c), c.Param("id"), req.Reason, req.Feedback)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.productUseCase.DeleteProduct(c.Request().Context(), callerFrom(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"id": c.Param("id"), "status": "deleted"})
}
