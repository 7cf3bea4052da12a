package handler

import (
	stderrors "errors"

	"github.com/labstack/echo/v4"

	"bazaarbondhu/internal/adapter/api/middleware"
	"bazaarbondhu/internal/domain/access"
	"bazaarbondhu/internal/usecase"
	"bazaarbondhu/pkg/errors"
)

var (
	userHandler          *UserHandler
	productHandler       *ProductHandler
	reviewHandler        *ReviewHandler
	watchlistHandler     *WatchlistHandler
	advertisementHandler *AdvertisementHandler
	paymentHandler       *PaymentHandler
	dashboardHandler     *DashboardHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	watchlistUseCase *usecase.WatchlistUseCase,
	advertisementUseCase *usecase.AdvertisementUseCase,
	paymentUseCase *usecase.PaymentUseCase,
	statsUseCase *usecase.StatsUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	watchlistHandler = NewWatchlistHandler(watchlistUseCase)
	advertisementHandler = NewAdvertisementHandler(advertisementUseCase)
	paymentHandler = NewPaymentHandler(paymentUseCase)
	dashboardHandler = NewDashboardHandler(statsUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetWatchlistHandler() *WatchlistHandler {
	return watchlistHandler
}

func GetAdvertisementHandler() *AdvertisementHandler {
	return advertisementHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

// callerFrom collects what the auth and role middleware stored on c.
func callerFrom(c echo.Context) usecase.Caller {
	return usecase.Caller{
		Identity: middleware.IdentityFrom(c),
		Role:     middleware.RoleFrom(c),
	}
}

// scopeError maps list-scoping failures onto the error taxonomy.
func scopeError(err error) error {
	switch {
	case stderrors.Is(err, access.ErrUnauthenticated):
		return errors.Unauthorized("Authentication required for this view", err)
	case stderrors.Is(err, access.ErrScopeForbidden):
		return errors.Forbidden("Your role cannot use this view", err)
	case stderrors.Is(err, access.ErrUnsupportedView):
		return errors.Validation("view", "view is not available for this resource")
	default:
		return err
	}
}

// listParams scopes the request's filters for resource. When fixed is set
// the ?view= parameter is ignored.
func listParams(c echo.Context, resource access.Resource, view access.ListView, fixed bool) (access.ListParams, error) {
	if v := c.QueryParam("view"); v != "" && !fixed {
		view = access.ParseView(v)
	}

	caller := callerFrom(c)
	id := caller.Identity
	params, err := access.BuildListParams(resource, view, caller.Role, &id, access.ParseFilters(c.QueryParams()))
	if err != nil {
		return access.ListParams{}, scopeError(err)
	}

	page, limit := pageAndLimit(c)
	return params.WithPage(page, limit), nil
}
