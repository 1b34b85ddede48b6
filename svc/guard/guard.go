package guard

import (
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/svc/session"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Allowed is the positive decision.
var Allowed = Decision{Allow: true}

// RedirectTo returns a denying decision that sends the user to path.
func RedirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Authorize checks s against required. A nil session is anonymous.
// An empty required set admits nobody; public views never reach Authorize.
func Authorize(s *session.Session, required rbac.Set) Decision {
	if s == nil {
		return RedirectTo(LoginPath)
	}
	if !required.Has(s.Role) {
		return RedirectTo(UnauthorizedPath)
	}
	return Allowed
}

// DashboardFor returns the landing view after login for role.
func DashboardFor(role rbac.Role) string {
	switch role {
	case rbac.Admin:
		return "/dashboard/admin"
	case rbac.Pharmacist:
		return "/dashboard/pharmacist"
	case rbac.Customer:
		return "/dashboard/customer"
	default:
		return "/"
	}
}
