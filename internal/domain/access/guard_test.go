package access

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaarbondhu/internal/domain/entity"
)

var alice = &Identity{UID: "u1", Email: "alice@example.com", DisplayName: "Alice"}

func TestDecide_Unauthenticated(t *testing.T) {
	d := Decide(nil, Unresolved(), OnlyRoles(entity.RoleAdmin), "/dashboard/all-users")

	assert.Equal(t, OutcomeUnauthenticated, d.Outcome)
	assert.Equal(t, "/login?from=%2Fdashboard%2Fall-users", d.RedirectTo)
	assert.Equal(t, "/dashboard/all-users", ReturnPath(d.RedirectTo))
	assert.False(t, d.Render())
}

func TestDecide_NeverRendersBeforeRoleIsKnown(t *testing.T) {
	for _, state := range []RoleState{Unresolved(), Resolving()} {
		d := Decide(alice, state, OnlyRoles(entity.RoleVendor), "/dashboard/add-product")
		assert.Equal(t, OutcomeResolving, d.Outcome, state.Phase.String())
		assert.Empty(t, d.RedirectTo)
		assert.False(t, d.Render())
	}
}

func TestDecide_FailedResolutionIsForbidden(t *testing.T) {
	d := Decide(alice, Failed(errors.New("network down")), AnyRole(), "/dashboard")

	assert.Equal(t, OutcomeForbidden, d.Outcome)
	assert.Equal(t, ForbiddenPath, d.RedirectTo)
}

func TestDecide_RoleMembership(t *testing.T) {
	tests := []struct {
		name string
		role entity.Role
		req  Requirement
		want Outcome
	}{
		{"vendor on vendor route", entity.RoleVendor, OnlyRoles(entity.RoleVendor), OutcomeAuthorized},
		{"user on admin route", entity.RoleUser, OnlyRoles(entity.RoleAdmin), OutcomeForbidden},
		{"admin on user route", entity.RoleAdmin, OnlyRoles(entity.RoleUser), OutcomeForbidden},
		{"any role on dashboard home", entity.RoleUser, AnyRole(), OutcomeAuthorized},
		{"multi-role route", entity.RoleAdmin, OnlyRoles(entity.RoleVendor, entity.RoleAdmin), OutcomeAuthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(alice, Resolved(tt.role), tt.req, "/x")
			assert.Equal(t, tt.want, d.Outcome)
		})
	}
}

func TestDecide_PublicRoute(t *testing.T) {
	d := Decide(nil, Unresolved(), Public(), "/products")
	assert.True(t, d.Render())
}

func TestResolved_RejectsUnknownRole(t *testing.T) {
	s := Resolved(entity.Role("superuser"))
	assert.Equal(t, PhaseFailed, s.Phase)
	_, ok := s.Known()
	assert.False(t, ok)
}

func TestRequirementFor(t *testing.T) {
	req, err := RequirementFor("/dashboard/products/update/abc123?tab=1")
	require.NoError(t, err)
	assert.Equal(t, []entity.Role{entity.RoleVendor}, req.Roles)

	req, err = RequirementFor("/dashboard/")
	require.NoError(t, err)
	assert.True(t, req.Authenticated)
	assert.Empty(t, req.Roles)

	req, err = RequirementFor("/products/p1")
	require.NoError(t, err)
	assert.False(t, req.Authenticated)

	_, err = RequirementFor("/dashboard/payment/")
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = RequirementFor("/nowhere")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestReturnPath_IgnoresForeignTargets(t *testing.T) {
	assert.Empty(t, ReturnPath("/login?from=https://evil.example"))
	assert.Empty(t, ReturnPath("/login?from=//evil.example"))
	assert.Empty(t, ReturnPath("/login"))
}
