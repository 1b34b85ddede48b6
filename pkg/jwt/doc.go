// Package jwt reads and issues HS256 JSON Web Tokens.
//
// A client never owns the backend's signing secret, so the common path is
// Decode: split the token, check the header, and unmarshal the claims segment
// into a typed struct without verifying the signature. Claims obtained this
// way are only good for UX decisions such as routing; the backend stays the
// authority for anything security sensitive.
//
// When the signing key is known (tests, a local mock backend, or deployments
// that share the key with the client) Service verifies signatures as well:
//
//	svc, err := jwt.NewFromString("secret")
//	token, err := svc.Generate(jwt.StandardClaims{
//	    Subject:   "u1",
//	    ExpiresAt: time.Now().Add(time.Hour).Unix(),
//	})
//
//	var claims jwt.StandardClaims
//	err = svc.Verify(token, &claims)
//
// Neither Decode nor Verify checks temporal claims; callers decide what "now"
// is through StandardClaims.ValidAt. Parse is the convenience form that also
// validates against the wall clock.
package jwt
