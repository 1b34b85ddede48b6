package rbac

import (
	"slices"
	"strings"
)

// Role is a user role as asserted by the backend in the token claims.
type Role string

const (
	Admin      Role = "admin"
	Pharmacist Role = "pharmacist"
	Customer   Role = "customer"
)

// Roles lists every known role, most privileged first.
func Roles() []Role {
	return []Role{Admin, Pharmacist, Customer}
}

// ParseRole converts a raw role name into a Role.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case Admin, Pharmacist, Customer:
		return true
	}
	return false
}

// String returns the role name as the backend spells it.
func (r Role) String() string {
	return string(r)
}

// Set is a capability set: the roles allowed to access something.
// The zero value is an empty set that admits nobody.
type Set struct {
	roles map[Role]struct{}
}

// NewSet builds a capability set from the given roles.
// Invalid roles are dropped so a typo can never widen access.
func NewSet(roles ...Role) Set {
	s := Set{roles: make(map[Role]struct{}, len(roles))}
	for _, r := range roles {
		if r.Valid() {
			s.roles[r] = struct{}{}
		}
	}
	return s
}

// ParseSet builds a capability set from raw role names, failing on the first unknown one.
func ParseSet(names ...string) (Set, error) {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return Set{}, err
		}
		roles = append(roles, r)
	}
	return NewSet(roles...), nil
}

// Has reports whether r belongs to the set.
func (s Set) Has(r Role) bool {
	_, ok := s.roles[r]
	return ok
}

// Check returns ErrInsufficientRole when r is not part of the set.
func (s Set) Check(r Role) error {
	if !s.Has(r) {
		return ErrInsufficientRole
	}
	return nil
}

// Len returns the number of roles in the set.
func (s Set) Len() int {
	return len(s.roles)
}

// Roles returns the members in the canonical order of Roles().
func (s Set) Roles() []Role {
	out := make([]Role, 0, len(s.roles))
	for _, r := range Roles() {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// String joins the members with commas in canonical order, for logs and messages.
func (s Set) String() string {
	names := make([]string, 0, len(s.roles))
	for _, r := range s.Roles() {
		names = append(names, string(r))
	}
	return strings.Join(names, ",")
}

// Equal reports whether both sets hold exactly the same roles.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s.Roles(), other.Roles())
}
