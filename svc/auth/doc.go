// Package auth talks to the backend's /auth endpoints.
//
// It performs the calls and normalises their outcome into a small error
// taxonomy; it holds no session state. Session bookkeeping (decoding the
// token, persisting it, expiry) is the job of svc/session.
//
// # Usage
//
//	svc := auth.NewService(api, auth.WithLogger(log))
//	defer svc.Wait()
//
//	creds, err := svc.Login(ctx, "ph@example.com", "secret")
//	switch {
//	case errors.Is(err, auth.ErrInvalidCredentials):
//	    // show the backend message inline
//	case errors.Is(err, auth.ErrNetwork):
//	    // suggest a retry
//	}
//
// Addresses are trimmed and lowercased before they are sent, the same way
// for Register and Login, so an account always signs in with the address it
// was created with. Register defaults the role to customer.
//
// Logout is a best-effort signal. It returns at once and posts the retired
// token in the background with its own timeout; failures are only logged.
// Wait blocks until those background calls finish.
//
// # Error Handling
//
//	ErrInvalidCredentials  the backend rejected the login
//	ErrRegistrationFailed  the backend or local checks rejected a registration
//	ErrMalformedResponse   a 2xx without a usable token and role
//	ErrNetwork             the backend was unreachable (apiclient.ErrNetwork)
//
// Rejections are joined with the underlying *apiclient.StatusError, so
// apiclient.Message still yields the backend's text.
package auth
