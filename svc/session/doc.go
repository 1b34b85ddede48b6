// Package session owns the client's login state.
//
// A Manager is either Anonymous or Authenticated. It moves between the two on
// Login, Logout, startup Restore and the periodic expiry check:
//
//	Anonymous     --login/restore-->  Authenticated
//	Authenticated --login-->          Authenticated (last write wins)
//	Authenticated --logout/expire-->  Anonymous
//
// The Session (token, role, expiry) is always derived from the token's claims,
// decoded client-side into a typed Claims struct. Anything missing or
// malformed is treated as no session at all. The claims are used for routing
// decisions only; the backend remains the authority on every request.
//
// # Architecture
//
// The manager keeps three things consistent: the in-memory state, the
// tokenstore.Store record and the subscribers' view of both. Each store write
// is paired with its state change under one lock, so a Login racing an
// expiry check or a Logout never leaves the store holding a token the state
// no longer describes. Subscribers are notified after the locks are
// released and may call back into the manager.
//
// Current never reports a session past its expiry, even between two runs of
// the expiry loop. The loop itself (Start, Stop) only turns that lapse into
// an explicit EventExpire transition and clears the store.
//
// When the backend shares its HS256 key (WithVerifier or SESSION_TOKEN_KEY),
// token signatures are checked as well. Without it the claims are decoded
// unverified.
//
// # Usage
//
//	mgr := session.NewManager(authSvc, store, session.WithConfig(cfg))
//	mgr.Restore(ctx)
//	mgr.Start(ctx)
//	defer mgr.Stop()
//
//	unsubscribe := mgr.Subscribe(func(c session.Change) {
//		if c.Event == session.EventExpire {
//			// send the user to /login
//		}
//	})
//	defer unsubscribe()
//
//	role, err := mgr.Login(ctx, email, password)
//
// The manager also implements apiclient.TokenSource, so API clients read the
// bearer token from it instead of from shared globals. UserID returns the
// subject claim for order placement.
//
// # Error Handling
//
// Login returns the auth.Service errors unchanged, auth.ErrMalformedResponse
// for a token whose claims cannot be decoded, and ErrStore when the login
// cannot be persisted; in each case the previous state is kept. Restore and
// Check do not return errors: a record that cannot be read or decoded is
// cleared and logged, and the manager stays Anonymous.
//
//	ErrSessionExpired  Change.Reason for an expiry logout
//	ErrInvalidToken    claims missing or malformed
//	ErrStore           the token store rejected a login
//	ErrNoTransition    an event that is not allowed in the current state
//
// # Configuration
//
//	SESSION_CHECK_INTERVAL  expiry loop period (default 5m)
//	SESSION_TOKEN_KEY       optional HS256 key for signature checks
//
// # Testing Helpers
//
// WithClock injects the time source, so expiry can be driven without sleeping.
// Pair it with tokenstore.MemoryStore and a stub Authenticator.
package session
