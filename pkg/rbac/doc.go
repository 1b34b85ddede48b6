// Package rbac defines the pharmacy roles and the capability sets used to gate
// access to protected views.
//
// The backend issues one of three roles inside the session token:
//
//   - admin: user management plus everything a pharmacist can do
//   - pharmacist: inventory management
//   - customer: browsing, cart and own orders
//
// A capability set is the set of roles permitted to open a view:
//
//	dashboard := rbac.NewSet(rbac.Pharmacist, rbac.Admin)
//	if dashboard.Has(role) {
//	    // render
//	}
//
// Roles arriving from untrusted input (token claims, YAML route tables, CLI
// flags) must go through ParseRole, which rejects anything outside the known
// set with ErrInvalidRole.
package rbac
