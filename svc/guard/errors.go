package guard

import "errors"

var (
	// ErrInvalidRouteTable is returned when a route table cannot be read or
	// names an unknown role.
	ErrInvalidRouteTable = errors.New("guard.invalid_route_table")

	// ErrInvalidPath is returned for a route path that does not start with "/".
	ErrInvalidPath = errors.New("guard.invalid_path")
)
