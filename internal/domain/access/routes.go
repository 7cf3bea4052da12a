package access

import (
	"strings"

	"bazaarbondhu/internal/domain/entity"
)

const (
	PathHome              = "/"
	PathCatalog           = "/products"
	PathProductDetails    = "/products/:id"
	PathSignUp            = "/signup"
	PathDashboard         = "/dashboard"
	PathAddProduct        = "/dashboard/add-product"
	PathMyProducts        = "/dashboard/my-products"
	PathUpdateProduct     = "/dashboard/products/update/:id"
	PathAddAdvertisement  = "/dashboard/advertisements/add"
	PathMyAdvertisements  = "/dashboard/my-advertisements"
	PathPriceTrends       = "/dashboard/price-trends"
	PathManageWatchlist   = "/dashboard/manage-watchlist"
	PathMyOrders          = "/dashboard/my-orders"
	PathPayment           = "/dashboard/payment/:id"
	PathMakeAdmin         = "/dashboard/make-admin"
	PathAllUsers          = "/dashboard/all-users"
	PathAllProducts       = "/dashboard/all-products"
	PathAllAdvertisements = "/dashboard/all-advertisements"
	PathAllOrders         = "/dashboard/all-orders"
)

type Route struct {
	Pattern     string
	Requirement Requirement
}

var vendorOnly = OnlyRoles(entity.RoleVendor)
var userOnly = OnlyRoles(entity.RoleUser)
var adminOnly = OnlyRoles(entity.RoleAdmin)

// Routes is the navigation table of the application.
var Routes = []Route{
	{PathHome, Public()},
	{PathCatalog, Public()},
	{PathProductDetails, Public()},
	{LoginPath, Public()},
	{PathSignUp, Public()},
	{ForbiddenPath, Public()},

	{PathDashboard, AnyRole()},

	{PathAddProduct, vendorOnly},
	{PathMyProducts, vendorOnly},
	{PathUpdateProduct, vendorOnly},
	{PathAddAdvertisement, vendorOnly},
	{PathMyAdvertisements, vendorOnly},

	{PathPriceTrends, userOnly},
	{PathManageWatchlist, userOnly},
	{PathMyOrders, userOnly},
	{PathPayment, userOnly},

	{PathMakeAdmin, adminOnly},
	{PathAllUsers, adminOnly},
	{PathAllProducts, adminOnly},
	{PathAllAdvertisements, adminOnly},
	{PathAllOrders, adminOnly},
}

// RequirementFor finds the route matching path, ignoring any query string.
func RequirementFor(path string) (Requirement, error) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, r := range Routes {
		if matchPattern(r.Pattern, path) {
			return r.Requirement, nil
		}
	}
	return Requirement{}, ErrUnknownRoute
}

func matchPattern(pattern, path string) bool {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
