package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork means the request never produced a response: DNS, connect,
	// TLS, timeout or a body cut off mid-read.
	ErrNetwork = errors.New("api.network")

	// ErrMalformedResponse is a 2xx whose body does not decode into the caller's value.
	ErrMalformedResponse = errors.New("api.malformed_response")

	// ErrUnauthenticated is an AuthRequired call made without a token. Nothing is sent.
	ErrUnauthenticated = errors.New("api.unauthenticated")

	// ErrUnauthorized is a 401: the token is missing, invalid or expired server-side.
	ErrUnauthorized = errors.New("api.unauthorized")

	// ErrForbidden is a 403: the token is valid but its role may not do this.
	ErrForbidden = errors.New("api.forbidden")

	// ErrNotFound is a 404.
	ErrNotFound = errors.New("api.not_found")

	// ErrRateLimited is a 429. GETs are retried on it.
	ErrRateLimited = errors.New("api.rate_limited")

	// ErrServer is any 5xx. GETs are retried on it.
	ErrServer = errors.New("api.server_error")

	// ErrBadRequest is any other non-2xx status, usually a 400 with a message.
	ErrBadRequest = errors.New("api.bad_request")

	// ErrInvalidBaseURL is returned by New for a base URL that is not absolute http(s).
	ErrInvalidBaseURL = errors.New("api.invalid_base_url")
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code int
	// Message is the backend's "error" or "message" field, if any.
	Message string
}

// Error formats the status code with the backend message, or the standard
// status text when the backend sent none.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api: %d %s", e.Code, e.Message)
}

// Unwrap maps the status code onto a sentinel error.
func (e *StatusError) Unwrap() error {
	switch {
	case e.Code == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Code == http.StatusForbidden:
		return ErrForbidden
	case e.Code == http.StatusNotFound:
		return ErrNotFound
	case e.Code == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.Code >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

// Message returns the backend message carried by err, or "" when err is not a StatusError.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// retryable reports whether a failed GET may be sent again.
func retryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer) || errors.Is(err, ErrRateLimited)
}
