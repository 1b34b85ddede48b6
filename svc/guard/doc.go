// Package guard decides whether the current session may open a view.
//
// # Architecture
//
// Authorize is a pure function of a session and the roles a view requires:
// no session redirects to /login, a role outside the set redirects to
// /unauthorized, anything else is allowed. An empty set admits nobody.
//
// Routes maps view paths to their required roles. Paths are compared after
// dropping the query string and a trailing slash, and any path missing from
// the table is public. Routes holds no session of its own: Navigate is
// evaluated against whatever session the caller passes, so a logout or an
// expired session takes effect on the very next navigation.
//
// DefaultRoutes protects /orders and /dashboard/customer for every signed-in
// role, /dashboard/pharmacist for pharmacists and admins, and
// /dashboard/admin for admins only. DashboardFor gives the landing view for
// a role after login.
//
// # Usage
//
//	routes := guard.DefaultRoutes()
//	cur, ok := mgr.Current()
//	var s *session.Session
//	if ok {
//		s = &cur
//	}
//	if d := routes.Navigate("/dashboard/admin", s); !d.Allow {
//		// go to d.RedirectTo
//	}
//
// Route tables can also be loaded from YAML with LoadRoutes or ParseRoutes:
//
//	routes:
//	  /orders: [customer, pharmacist, admin]
//	  /dashboard/admin: [admin]
//	  /cart: []
//
// A path with an empty list is public.
//
// # Error Handling
//
// ErrInvalidRouteTable covers unreadable files, malformed YAML, empty tables
// and unknown role names (joined with rbac.ErrInvalidRole). ErrInvalidPath is
// returned for a path that does not start with "/".
package guard
