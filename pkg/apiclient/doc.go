// Package apiclient is the JSON-over-HTTP client shared by the pharmacy
// service packages.
//
// The backend speaks plain JSON under a single base URL that usually ends in
// /api. Service packages (svc/auth, svc/catalog, svc/orders, svc/users) never
// build http.Requests themselves; they describe a call with a Request or one
// of the verb helpers and let the Client handle transport, authentication,
// retries and error classification.
//
// # Architecture
//
// Every call goes through Client.Do, which:
//
//   - joins the request path onto the configured base URL,
//   - encodes the body as JSON and decodes 2xx responses into the caller's value,
//   - attaches "Authorization: Bearer <token>" according to the request's Auth mode,
//     reading the token from a TokenSource (normally the session manager),
//   - sends the request id from the context (pkg/requestid) as X-Request-ID,
//   - retries idempotent GETs with exponential backoff on transport failures,
//     429 and 5xx responses,
//   - traces the round trip through an otelhttp transport.
//
// The Auth mode is chosen per call. AuthNone never sends a token (login,
// registration, public search). AuthOptional sends one when a session exists
// (placing an order as a guest or as a customer). AuthRequired refuses to send
// the request at all without a token and returns ErrUnauthenticated, so a
// protected endpoint is never hit anonymously by mistake. Request.Token
// overrides the TokenSource for a single call; the logout signal uses it to
// send the token that is being retired.
//
// # Usage
//
//	api, err := apiclient.New(cfg,
//		apiclient.WithTokenSource(mgr),
//		apiclient.WithLogger(log),
//		apiclient.WithTracing(tel.TracerProvider(), tel.Propagator()),
//	)
//	if err != nil {
//		return err
//	}
//
//	var list []Medicine
//	err = api.Get(ctx, "/medicines", nil, apiclient.AuthOptional, &list)
//
// Passing a nil out value discards the response body. An empty 2xx body is
// not an error.
//
// # Error Handling
//
// Errors are classified so that callers can branch with errors.Is:
//
//	ErrNetwork           transport failure, nothing was received
//	ErrMalformedResponse 2xx with a body that does not decode
//	ErrUnauthenticated   AuthRequired call without a token; never sent
//	*StatusError         non-2xx; unwraps to ErrUnauthorized, ErrForbidden,
//	                     ErrNotFound, ErrRateLimited, ErrServer or ErrBadRequest
//
// StatusError carries the backend's "error" or "message" field. Message
// extracts it for display and falls back to the error text.
//
// # Configuration
//
// Config is loaded with pkg/config:
//
//	PHARMACY_API_URL                 base URL (default http://localhost:5000/api)
//	PHARMACY_API_TIMEOUT             per-request timeout (default 15s)
//	PHARMACY_API_RETRY_ATTEMPTS      attempts for GETs, at least 1 (default 3)
//	PHARMACY_API_RETRY_MAX_INTERVAL  cap on the backoff interval (default 2s)
//
// WithHTTPClient replaces the underlying http.Client entirely. Neither the
// timeout nor tracing is applied to a client passed that way.
//
// # Testing Helpers
//
// Point Config.BaseURL at an httptest.Server and pass a TokenFunc to control
// the token per test:
//
//	api, _ := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api"},
//		apiclient.WithTokenSource(apiclient.TokenFunc(func() (string, bool) {
//			return "tkn", true
//		})),
//	)
package apiclient
