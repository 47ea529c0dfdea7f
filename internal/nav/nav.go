// Package nav is the single capability table for routes: which roles
// may enter each destination and which destinations appear in the
// sidebar. The gate and the menus both consume it, so route gating and
// navigation visibility cannot drift apart.
package nav

import "github.com/spec-kit/desk-console/internal/domain"

// Route identifies a console destination.
type Route string

const (
	RouteCustomerForm  Route = "customer-form"
	RouteLogin         Route = "login"
	RouteDashboard     Route = "dashboard"
	RouteTicketDetail  Route = "ticket-detail"
	RouteOperators     Route = "operators"
	RouteOperatorNew   Route = "operator-new"
	RouteOperatorEdit  Route = "operator-edit"
	RouteResetPassword Route = "reset-password"
)

// Entry describes one destination: its label for menus and the roles
// allowed through the gate. A nil Roles slice means the destination is
// public.
type Entry struct {
	Route   Route
	Label   string
	Roles   []domain.Role
	Sidebar bool
}

var table = []Entry{
	{Route: RouteCustomerForm, Label: "New Support Ticket"},
	{Route: RouteLogin, Label: "Login"},
	{Route: RouteDashboard, Label: "Dashboard",
		Roles: []domain.Role{domain.RoleOperator, domain.RoleAdministrator}, Sidebar: true},
	{Route: RouteTicketDetail, Label: "Ticket Detail",
		Roles: []domain.Role{domain.RoleOperator, domain.RoleAdministrator}},
	{Route: RouteOperators, Label: "Operators",
		Roles: []domain.Role{domain.RoleAdministrator}, Sidebar: true},
	{Route: RouteOperatorNew, Label: "New Operator",
		Roles: []domain.Role{domain.RoleAdministrator}, Sidebar: true},
	{Route: RouteOperatorEdit, Label: "Edit Operator",
		Roles: []domain.Role{domain.RoleAdministrator}},
	{Route: RouteResetPassword, Label: "Reset Password",
		Roles: []domain.Role{domain.RoleAdministrator}},
}

// Lookup returns the table entry for a route. Unknown routes are not
// navigable; the router renders its not-found view instead of gating.
func Lookup(route Route) (Entry, bool) {
	for _, entry := range table {
		if entry.Route == route {
			return entry, true
		}
	}
	return Entry{}, false
}

// RequiredRoles returns the roles the gate must see for a route; nil
// means unrestricted.
func RequiredRoles(route Route) []domain.Role {
	entry, _ := Lookup(route)
	return entry.Roles
}

// Visible lists the sidebar entries the given role may see, in table
// order.
func Visible(role domain.Role) []Entry {
	var entries []Entry
	for _, entry := range table {
		if !entry.Sidebar {
			continue
		}
		if role.In(entry.Roles...) {
			entries = append(entries, entry)
		}
	}
	return entries
}
