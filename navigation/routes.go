// Package navigation models the application's routes, the guard that keeps
// anonymous users out of protected routes, and the declarative navigation
// events other layers emit instead of redirecting directly.
package navigation

import "strings"

// Route is a route pattern. Segments starting with ':' match any single
// non-empty path segment.
type Route string

const (
	RouteLogin  Route = "/login"
	RouteSignup Route = "/signup"

	RouteDashboard          Route = "/"
	RouteClients            Route = "/clients"
	RouteClientNew          Route = "/clients/new"
	RouteClientEdit         Route = "/clients/:clientId/edit"
	RouteClientDetails      Route = "/clients/:clientId"
	RouteMeasurements       Route = "/measurements"
	RouteClientMeasurements Route = "/measurements/client/:clientId"
	RouteOrders             Route = "/orders"
	RouteOrderDetails       Route = "/orders/:orderId"
	RouteInventory          Route = "/inventory"
	RoutePurchaseOrders     Route = "/purchase-orders"
	RouteExpenses           Route = "/expenses"
	RouteCalendar           Route = "/calendar"
	RouteStaff              Route = "/staff"
	RouteStaffDetails       Route = "/staff/:id"
	RouteReports            Route = "/reports"
	RouteMessages           Route = "/messages"
	RouteProfile            Route = "/profile"
)

// routes is ordered so that literal routes win over parameterised siblings
// (/clients/new before /clients/:clientId).
var routes = []Route{
	RouteLogin,
	RouteSignup,
	RouteDashboard,
	RouteClients,
	RouteClientNew,
	RouteClientEdit,
	RouteClientDetails,
	RouteMeasurements,
	RouteClientMeasurements,
	RouteOrders,
	RouteOrderDetails,
	RouteInventory,
	RoutePurchaseOrders,
	RouteExpenses,
	RouteCalendar,
	RouteStaff,
	RouteStaffDetails,
	RouteReports,
	RouteMessages,
	RouteProfile,
}

var publicRoutes = map[Route]struct{}{
	RouteLogin:  {},
	RouteSignup: {},
}

// Routes returns every known route.
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// IsPublic reports whether the route is reachable without a session.
func (r Route) IsPublic() bool {
	_, ok := publicRoutes[r]
	return ok
}

// Match reports whether path matches the route pattern.
func (r Route) Match(path string) bool {
	pattern := splitPath(string(r))
	segments := splitPath(path)
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}

// Resolve maps a path to its route. Unknown paths fall back to the dashboard.
func Resolve(path string) Route {
	for _, r := range routes {
		if r.Match(path) {
			return r
		}
	}
	return RouteDashboard
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
