package auth

import (
	"errors"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("auth.invalid_credentials")

	// ErrMalformedResponse is returned when a login response lacks the token or role claim.
	ErrMalformedResponse = errors.New("auth.malformed_response")

	// ErrRegistrationFailed is returned when the backend rejects a registration.
	ErrRegistrationFailed = errors.New("auth.registration_failed")

	// ErrNetwork is the transport failure from the API client.
	ErrNetwork = apiclient.ErrNetwork
)

// classify maps an API client error onto the auth taxonomy. rejected is the
// error used when the backend answered with a non-success status.
func classify(err, rejected error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apiclient.ErrNetwork):
		return err
	case errors.Is(err, apiclient.ErrMalformedResponse):
		return errors.Join(ErrMalformedResponse, err)
	default:
		return errors.Join(rejected, err)
	}
}
