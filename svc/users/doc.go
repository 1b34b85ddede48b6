// Package users backs the admin dashboard's user management.
//
// List, Update and Delete call /users with the admin's bearer token. A
// non-admin token comes back as apiclient.ErrForbidden. Update sends only
// the fields that are set and rejects an update that sets nothing, or an
// unknown role, with ErrInvalidUpdate.
package users
