package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/desk-console/internal/domain"
)

func TestLookup(t *testing.T) {
	entry, ok := Lookup(RouteDashboard)
	require.True(t, ok)
	assert.Equal(t, "Dashboard", entry.Label)
	assert.ElementsMatch(t, []domain.Role{domain.RoleOperator, domain.RoleAdministrator}, entry.Roles)

	_, ok = Lookup(Route("billing"))
	assert.False(t, ok)
}

func TestRequiredRoles(t *testing.T) {
	assert.Nil(t, RequiredRoles(RouteCustomerForm))
	assert.Nil(t, RequiredRoles(RouteLogin))
	assert.Equal(t, []domain.Role{domain.RoleAdministrator}, RequiredRoles(RouteOperators))
	assert.Equal(t, []domain.Role{domain.RoleAdministrator}, RequiredRoles(RouteResetPassword))
}

func TestVisible(t *testing.T) {
	routesOf := func(entries []Entry) []Route {
		routes := make([]Route, 0, len(entries))
		for _, entry := range entries {
			routes = append(routes, entry.Route)
		}
		return routes
	}

	assert.Equal(t, []Route{RouteDashboard}, routesOf(Visible(domain.RoleOperator)))
	assert.Equal(t,
		[]Route{RouteDashboard, RouteOperators, RouteOperatorNew},
		routesOf(Visible(domain.RoleAdministrator)))
	assert.Empty(t, Visible(domain.RoleGuest))
}

// Every sidebar destination a role can see must also pass that role's
// gate; visibility and permission come from the same table rows.
func TestVisibleEntriesAreEnterable(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleOperator, domain.RoleAdministrator} {
		for _, entry := range Visible(role) {
			assert.True(t, role.In(RequiredRoles(entry.Route)...),
				"role %s sees %s but may not enter it", role, entry.Route)
		}
	}
}
