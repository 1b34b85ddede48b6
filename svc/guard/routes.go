package guard

import (
	"errors"
	"fmt"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/svc/session"
)

// Routes maps view paths to the roles allowed to open them.
// Paths not in the table are public. The zero value has no protected routes.
type Routes struct {
	protected map[string]rbac.Set
	public    map[string]struct{}
}

// DefaultRoutes returns the application's route table.
func DefaultRoutes() Routes {
	all := rbac.NewSet(rbac.Customer, rbac.Admin, rbac.Pharmacist)

	return Routes{
		protected: map[string]rbac.Set{
			"/orders":               all,
			"/dashboard/customer":   all,
			"/dashboard/pharmacist": rbac.NewSet(rbac.Pharmacist, rbac.Admin),
			"/dashboard/admin":      rbac.NewSet(rbac.Admin),
		},
		public: publicSet("/", LoginPath, "/register", "/cart", "/search", "/payment-options", UnauthorizedPath),
	}
}

// NewRoutes builds a table from path to role names. A path with no roles is public.
func NewRoutes(table map[string][]string) (Routes, error) {
	r := Routes{
		protected: make(map[string]rbac.Set, len(table)),
		public:    make(map[string]struct{}),
	}

	for raw, names := range table {
		p, err := normalize(raw)
		if err != nil {
			return Routes{}, err
		}
		if len(names) == 0 {
			r.public[p] = struct{}{}
			continue
		}

		set, err := rbac.ParseSet(names...)
		if err != nil {
			return Routes{}, errors.Join(ErrInvalidRouteTable, fmt.Errorf("route %s: %w", raw, err))
		}
		r.protected[p] = set
	}

	return r, nil
}

type routeFile struct {
	Routes map[string][]string `yaml:"routes"`
}

// ParseRoutes reads a YAML route table:
//
//	routes:
//	  /orders: [customer, pharmacist, admin]
//	  /dashboard/admin: [admin]
//	  /cart: []
func ParseRoutes(data []byte) (Routes, error) {
	var f routeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Routes{}, errors.Join(ErrInvalidRouteTable, err)
	}
	if len(f.Routes) == 0 {
		return Routes{}, errors.Join(ErrInvalidRouteTable, errors.New("no routes defined"))
	}
	return NewRoutes(f.Routes)
}

// LoadRoutes reads a YAML route table from file.
func LoadRoutes(file string) (Routes, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Routes{}, errors.Join(ErrInvalidRouteTable, err)
	}
	return ParseRoutes(data)
}

// Required returns the roles allowed on p and whether p is protected.
func (r Routes) Required(p string) (rbac.Set, bool) {
	p, err := normalize(p)
	if err != nil {
		return rbac.Set{}, false
	}
	set, ok := r.protected[p]
	return set, ok
}

// Public reports whether p can be opened without a session.
func (r Routes) Public(p string) bool {
	_, protected := r.Required(p)
	return !protected
}

// Navigate authorizes a visit to p for s. It holds no state, so callers
// evaluate every navigation against the current session.
func (r Routes) Navigate(p string, s *session.Session) Decision {
	required, protected := r.Required(p)
	if !protected {
		return Allowed
	}
	return Authorize(s, required)
}

// Paths lists every known path in lexical order.
func (r Routes) Paths() []string {
	out := make([]string, 0, len(r.protected)+len(r.public))
	for p := range r.protected {
		out = append(out, p)
	}
	for p := range r.public {
		if _, dup := r.protected[p]; !dup {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// normalize drops the query and trailing slash, so "/search?q=x" is "/search".
func normalize(p string) (string, error) {
	p, _, _ = strings.Cut(strings.TrimSpace(p), "?")
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return path.Clean(p), nil
}

func publicSet(paths ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		m[p] = struct{}{}
	}
	return m
}
