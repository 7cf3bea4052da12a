package access

import (
	"bazaarbondhu/internal/domain/entity"
)

type MenuEntry struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

var homeEntry = MenuEntry{Label: "Dashboard Home", Path: PathDashboard, Icon: "home"}

var roleMenus = map[entity.Role][]MenuEntry{
	entity.RoleVendor: {
		{Label: "Add Product", Path: PathAddProduct, Icon: "plus-circle"},
		{Label: "My Products", Path: PathMyProducts, Icon: "box"},
		{Label: "Add Advertisement", Path: PathAddAdvertisement, Icon: "bullhorn"},
	},
	entity.RoleUser: {
		{Label: "Price Trends", Path: PathPriceTrends, Icon: "chart-line"},
		{Label: "Manage Watchlist", Path: PathManageWatchlist, Icon: "list"},
		{Label: "My Orders", Path: PathMyOrders, Icon: "receipt"},
	},
	entity.RoleAdmin: {
		{Label: "Make Admin", Path: PathMakeAdmin, Icon: "user-shield"},
		{Label: "All Users", Path: PathAllUsers, Icon: "users"},
		{Label: "All Products", Path: PathAllProducts, Icon: "box-open"},
		{Label: "All Advertisements", Path: PathAllAdvertisements, Icon: "bullhorn"},
		{Label: "All Orders", Path: PathAllOrders, Icon: "clipboard-list"},
	},
}

// BuildMenu returns Dashboard Home followed by the entries of role. An
// unknown or empty role gets Dashboard Home only.
func BuildMenu(role entity.Role) []MenuEntry {
	entries := roleMenus[role]
	menu := make([]MenuEntry, 0, len(entries)+1)
	menu = append(menu, homeEntry)
	return append(menu, entries...)
}

// MenuFor is BuildMenu driven by a RoleState; nothing role-specific is shown
// until the role is resolved.
func MenuFor(state RoleState) []MenuEntry {
	role, _ := state.Known()
	return BuildMenu(role)
}
