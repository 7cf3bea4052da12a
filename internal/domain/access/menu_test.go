package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/domain/entity"
)

func labels(entries []MenuEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}

func TestBuildMenu(t *testing.T) {
	assert.Equal(t,
		[]string{"Dashboard Home", "Add Product", "My Products", "Add Advertisement"},
		labels(BuildMenu(entity.RoleVendor)))

	assert.Equal(t,
		[]string{"Dashboard Home", "Price Trends", "Manage Watchlist", "My Orders"},
		labels(BuildMenu(entity.RoleUser)))

	assert.Equal(t,
		[]string{"Dashboard Home", "Make Admin", "All Users", "All Products", "All Advertisements", "All Orders"},
		labels(BuildMenu(entity.RoleAdmin)))
}

func TestBuildMenu_UnknownRoleGetsHomeOnly(t *testing.T) {
	assert.Equal(t, []string{"Dashboard Home"}, labels(BuildMenu("")))
	assert.Equal(t, []string{"Dashboard Home"}, labels(BuildMenu("Admin")))
	assert.Equal(t, []string{"Dashboard Home"}, labels(MenuFor(Resolving())))
}

func TestBuildMenu_EntriesAreReachableByRole(t *testing.T) {
	for _, role := range entity.AllRoles {
		for _, entry := range BuildMenu(role) {
			req, err := RequirementFor(entry.Path)
			require.NoError(t, err, entry.Path)
			assert.True(t, req.Admits(role), "%s should admit %s", entry.Path, role)
		}
	}
}

func TestBuildMenu_ReturnsFreshSlice(t *testing.T) {
	m := BuildMenu(entity.RoleUser)
	m[1].Label = "changed"
	assert.Equal(t, "Price Trends", BuildMenu(entity.RoleUser)[1].Label)
}
